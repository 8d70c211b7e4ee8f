package models

import "github.com/projectdesk/projectdesk/pkg/model"

var File = model.Schema{
	model.F("fileId", model.Number),
	model.F("fileName", model.String),
	model.F("originalName", model.String),
	model.F("filePath", model.String),
	model.F("fileSize", model.Number),
	model.F("mimeType", model.String),
	model.F("projectId", model.Number),
	model.F("uploadedAt", model.Date),
}
