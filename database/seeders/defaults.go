package seeders

import (
	"context"

	"github.com/projectdesk/projectdesk/app/models"
	"github.com/projectdesk/projectdesk/config"
	"github.com/projectdesk/projectdesk/pkg/auth"
	"github.com/projectdesk/projectdesk/pkg/logger"
	"github.com/projectdesk/projectdesk/pkg/model"
)

func init() {
	Register("admin", seedAdmin)
	Register("faqs", seedFAQs)
}

// seedAdmin creates the first administrator from SEED_ADMIN_*. Nothing is
// written without a password or when the email is already registered.
func seedAdmin(ctx context.Context, store *model.Store, cfg *config.Config) error {
	seed := cfg.Seed
	if seed.AdminPassword == "" {
		logger.Info("seed: SEED_ADMIN_PASSWORD not set, admin skipped")
		return nil
	}
	taken, err := store.Exists(ctx, "SELECT 1 FROM USERS WHERE email = ?", seed.AdminEmail)
	if err != nil || taken {
		return err
	}

	hash, err := auth.HashPassword(seed.AdminPassword)
	if err != nil {
		return err
	}
	_, err = store.Insert(ctx, models.TableUsers, model.Record{
		"name":         seed.AdminName,
		"email":        seed.AdminEmail,
		"passwordHash": hash,
		"role":         models.RoleAdmin,
	}, models.User)
	return err
}

var starterFAQs = []model.Record{
	{"question": "How do I follow the progress of my project?",
		"answer": "Open the project from My Projects. The progress view lists every task and the share already completed."},
	{"question": "Which plans are available?",
		"answer": "Clients can be on the Oro, Esmeralda or Premium plan. New clients start on Oro."},
	{"question": "How do I share documents with the team?",
		"answer": "Upload them from the project's Files tab. Everyone working on the project can download them."},
	{"question": "Who can change the status of a task?",
		"answer": "Administrators can change any task. Workers can update the tasks assigned to them."},
}

// seedFAQs writes the starter FAQs into an empty FAQS table.
func seedFAQs(ctx context.Context, store *model.Store, _ *config.Config) error {
	seeded, err := store.Exists(ctx, "SELECT 1 FROM FAQS")
	if err != nil || seeded {
		return err
	}
	for _, faq := range starterFAQs {
		if _, err := store.Insert(ctx, models.TableFAQs, faq, models.FAQ); err != nil {
			return err
		}
	}
	return nil
}
