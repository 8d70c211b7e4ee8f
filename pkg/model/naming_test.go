package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/projectdesk/projectdesk/pkg/model"
)

func TestApplicationName(t *testing.T) {
	cases := map[string]string{
		"PROJECT_ID":    "projectId",
		"project_id":    "projectId",
		"STATUS":        "status",
		"WORKER__NAME":  "workerName",
		"TRAILING_":     "trailing",
		"FILE_2_NAME":   "file2Name",
		"totalTasks":    "totaltasks",
		"password_hash": "passwordHash",
	}
	for in, want := range cases {
		assert.Equal(t, want, model.ApplicationName(in), in)
	}
}

func TestStorageName(t *testing.T) {
	cases := map[string]string{
		"projectId":    "PROJECT_ID",
		"status":       "STATUS",
		"originalName": "ORIGINAL_NAME",
		"file2Name":    "FILE_2NAME",
		"s3URL":        "S_3URL",
	}
	for in, want := range cases {
		assert.Equal(t, want, model.StorageName(in), in)
	}
}

func TestKeyTranslationRoundTrip(t *testing.T) {
	rec := model.Record{
		"taskId":      1,
		"projectId":   2,
		"description": "x",
		"createdAt":   nil,
		"fileURL":     "u",
		"a1b":         true,
	}

	once := model.ToStorageKeys(rec)
	twice := model.ToStorageKeys(model.ToApplicationKeys(once))
	assert.Equal(t, once, twice)
}

func TestKeyTranslationLeavesValuesAlone(t *testing.T) {
	nested := map[string]any{"innerKey": 1}
	out := model.ToStorageKeys(model.Record{"outerKey": nested})

	assert.Equal(t, nested, out["OUTER_KEY"])
}

func TestKeyTranslationNil(t *testing.T) {
	assert.Nil(t, model.ToApplicationKeys(nil))
	assert.Nil(t, model.ToStorageKeys(nil))
	assert.Empty(t, model.ToStorageKeys(model.Record{}))
}

func TestKeyTranslationAll(t *testing.T) {
	out := model.ToApplicationKeysAll([]model.Record{{"TASK_ID": 1}, {"TASK_ID": 2}})

	assert.Equal(t, []model.Record{{"taskId": 1}, {"taskId": 2}}, out)
}
