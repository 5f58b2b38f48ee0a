package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/teashop/internal/models"
)

const (
	FirstOrderNumber = 1001

	maxOrderNumberAttempts = 3
)

var ErrOrderNumberConflict = errors.New("order number conflict")

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// nextOrderNumber must run inside the transaction that inserts the order.
func nextOrderNumber(tx *gorm.DB) (int, error) {
	var last sql.NullInt64
	if err := tx.Model(&models.Order{}).Select("MAX(order_id)").Row().Scan(&last); err != nil {
		return 0, err
	}
	if !last.Valid {
		return FirstOrderNumber, nil
	}
	return int(last.Int64) + 1, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

// CreateOrder stores contact and order in one transaction and assigns the
// next order number. A unique violation on the order number means another
// writer took it first; the whole transaction is retried.
func (r *GormRepo) CreateOrder(ctx context.Context, contact *models.Contact, order *models.Order) error {
	var err error
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		contact.ID = 0
		order.ID = 0

		err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			next, err := nextOrderNumber(tx)
			if err != nil {
				return err
			}

			if err := tx.Create(contact).Error; err != nil {
				return err
			}

			order.OrderNumber = next
			order.ContactID = contact.ID
			return tx.Omit(clause.Associations).Create(order).Error
		})
		if err == nil {
			order.Contact = *contact
			return nil
		}
		if !isDuplicateKey(err) {
			return err
		}
	}
	return errors.Join(ErrOrderNumberConflict, err)
}

// ListOrdersWithContact returns every order, newest row first, with its
// contact loaded by a single join.
func (r *GormRepo) ListOrdersWithContact(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Joins("Contact").
		Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}, Desc: true}).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) FindContactIDsByPhone(ctx context.Context, phone string) ([]uint, error) {
	var ids []uint
	if err := r.DB.WithContext(ctx).Model(&models.Contact{}).Where("contact_phone = ?", phone).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *GormRepo) ListOrdersByContactIDs(ctx context.Context, contactIDs []uint) ([]models.Order, error) {
	var orders []models.Order
	if len(contactIDs) == 0 {
		return orders, nil
	}

	err := r.DB.WithContext(ctx).
		Joins("Contact").
		Where(clause.IN{Column: clause.Column{Table: clause.CurrentTable, Name: "contact_id"}, Values: toValues(contactIDs)}).
		Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: "created_at"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}, Desc: true}).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ClearAll removes every order and then every contact. It returns the number
// of deleted orders.
func (r *GormRepo) ClearAll(ctx context.Context) (int64, error) {
	var deleted int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		global := tx.Session(&gorm.Session{AllowGlobalUpdate: true})

		res := global.Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected

		return global.Delete(&models.Contact{}).Error
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func toValues(ids []uint) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
