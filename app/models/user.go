package models

import "github.com/projectdesk/projectdesk/pkg/model"

const (
	RoleAdmin  = "Admin"
	RoleClient = "Client"
	RoleWorker = "Worker"
)

// Roles in their legacy storage order: rows written as "0", "1" and "2"
// read back as Admin, Client and Worker.
var Roles = []string{RoleAdmin, RoleClient, RoleWorker}

var Role = model.Enum(Roles...)

// User is the full USERS row, password hash included.
var User = model.Schema{
	model.F("userId", model.Number),
	model.F("name", model.String),
	model.F("email", model.String),
	model.F("passwordHash", model.String),
	model.F("role", Role),
	model.F("createdAt", model.Date),
	model.F("updatedAt", model.Date),
}

// UserProfile is what leaves the service layer: a user without the hash.
var UserProfile = model.Schema{
	model.F("userId", model.Number),
	model.F("name", model.String),
	model.F("email", model.String),
	model.F("role", Role),
	model.F("createdAt", model.Date),
	model.F("updatedAt", model.Date),
}
