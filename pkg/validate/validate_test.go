package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/projectdesk/projectdesk/pkg/validate"
)

type registerInput struct {
	Name     string `json:"name"     validate:"required,min=2,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"omitempty,oneof=Admin Worker Client"`
	Age      int    `json:"age"      validate:"omitempty,gte=18"`
}

type bulkInput struct {
	TaskIDs []int64 `json:"taskIds" validate:"required,min=1,dive,gt=0"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "secret123",
		Role:     "Worker",
	})
	assert.False(t, validate.HasErrors(errs), "%v", errs)
}

func TestRequiredUsesJSONNames(t *testing.T) {
	errs := validate.Struct(&registerInput{})

	assert.Equal(t, "The name field is required.", errs["name"])
	assert.Equal(t, "The email field is required.", errs["email"])
	assert.Contains(t, errs, "password")
	assert.NotContains(t, errs, "role")
}

func TestRuleMessages(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name:     "A",
		Email:    "not-an-email",
		Password: "short",
		Role:     "Owner",
		Age:      12,
	})

	assert.Equal(t, "The name must be at least 2 characters.", errs["name"])
	assert.Equal(t, "The email must be a valid email address.", errs["email"])
	assert.Equal(t, "The password must be at least 8 characters.", errs["password"])
	assert.Contains(t, errs["role"], "Admin Worker Client")
	assert.Equal(t, "The age must be greater than or equal to 18.", errs["age"])
}

func TestSliceRules(t *testing.T) {
	errs := validate.Struct(bulkInput{})
	assert.Contains(t, errs, "taskIds")

	errs = validate.Struct(bulkInput{TaskIDs: []int64{3, 0}})
	assert.Equal(t, "The taskIds[1] must be greater than 0.", errs["taskIds[1]"])

	errs = validate.Struct(bulkInput{TaskIDs: []int64{3, 4}})
	assert.Empty(t, errs)
}

func TestVar(t *testing.T) {
	errs := validate.Var("status", "Archived", "oneof=Pending Completed")
	assert.Contains(t, errs["status"], "The selected status is invalid")

	assert.Empty(t, validate.Var("status", "Pending", "oneof=Pending Completed"))
}

func TestNonStructIsIgnored(t *testing.T) {
	assert.Empty(t, validate.Struct(42))
}
