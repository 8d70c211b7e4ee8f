package models

import "github.com/projectdesk/projectdesk/pkg/model"

var FAQ = model.Schema{
	model.F("faqId", model.Number),
	model.F("question", model.String),
	model.F("answer", model.String),
	model.F("createdAt", model.Date),
}
