package models

import "github.com/projectdesk/projectdesk/pkg/model"

const (
	PlanGold    = "Oro"
	PlanEmerald = "Esmeralda"
	PlanPremium = "Premium"
	DefaultPlan = PlanGold
)

var Plans = []string{PlanGold, PlanEmerald, PlanPremium}

var Client = model.Schema{
	model.F("clientId", model.Number),
	model.F("userId", model.Number),
	model.F("contactInfo", model.String),
	model.F("address", model.String),
	model.F("additionalInfo", model.String),
	model.F("plan", model.Enum(Plans...)),
	model.F("createdAt", model.Date),
	model.F("updatedAt", model.Date),
}

// ClientWithUser is a client joined with its user's name, email and role.
var ClientWithUser = Client.Extend(
	model.F("name", model.String),
	model.F("email", model.String),
	model.F("role", Role),
)
