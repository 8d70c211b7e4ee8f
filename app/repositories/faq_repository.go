package repositories

import (
	"context"

	"github.com/projectdesk/projectdesk/app/models"
	"github.com/projectdesk/projectdesk/pkg/model"
)

// FAQRepository handles database operations for FAQS.
type FAQRepository struct {
	store *model.Store
}

func NewFAQRepository(store *model.Store) *FAQRepository {
	return &FAQRepository{store: store}
}

func (r *FAQRepository) All(ctx context.Context) ([]model.Record, error) {
	return r.store.FindMany(ctx, models.FAQ, "SELECT * FROM FAQS ORDER BY created_at DESC, faq_id DESC")
}

// Search matches term anywhere in the question or the answer.
func (r *FAQRepository) Search(ctx context.Context, term string) ([]model.Record, error) {
	pattern := "%" + term + "%"
	return r.store.FindMany(ctx, models.FAQ, `
		SELECT * FROM FAQS
		WHERE question LIKE ? OR answer LIKE ?
		ORDER BY created_at DESC, faq_id DESC`, pattern, pattern)
}

func (r *FAQRepository) FindByID(ctx context.Context, id int64) (model.Record, error) {
	rec, err := r.store.GetOne(ctx, models.FAQ, "SELECT * FROM FAQS WHERE faq_id = ?", id)
	return found(rec, err, models.ErrFAQNotFound)
}

func (r *FAQRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.store.Exists(ctx, "SELECT 1 FROM FAQS WHERE faq_id = ?", id)
}

func (r *FAQRepository) Create(ctx context.Context, faq model.Record) (int64, error) {
	return r.store.Insert(ctx, models.TableFAQs, faq, models.FAQ)
}

func (r *FAQRepository) Update(ctx context.Context, id int64, fields model.Record) (int64, error) {
	res, err := r.store.Update(ctx, models.TableFAQs, fields, model.Record{"faqId": id}, models.FAQ)
	return res.RowsAffected, err
}

func (r *FAQRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.store.Remove(ctx, models.TableFAQs, model.Record{"faqId": id}, models.FAQ)
	return err
}
