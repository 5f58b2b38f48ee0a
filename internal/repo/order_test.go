package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/teashop/internal/db"
	"github.com/Skotchmaster/teashop/internal/models"
)

func InitTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err, "failed to connect to in-memory db")
	require.NoError(t, db.Migrate(gdb), "failed to migrate tables")

	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

func newOrder(createdAt time.Time) (*models.Contact, *models.Order) {
	contact := &models.Contact{Name: "Amy", Phone: "123", PickupType: models.PickupTypePickup}
	order := &models.Order{
		Status:      models.OrderStatusPending,
		FinalAmount: 60,
		ItemsJSON:   `[{"name":"Milk Tea","price":60,"quantity":1}]`,
		CreatedAt:   createdAt,
	}
	return contact, order
}

func TestGormRepo_CreateOrder_AssignsSequentialNumbers(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}
	ctx := context.Background()
	now := time.Now().In(models.ShopZone)

	for i := 0; i < 3; i++ {
		contact, order := newOrder(now.Add(time.Duration(i) * time.Second))
		require.NoError(t, r.CreateOrder(ctx, contact, order))

		assert.Equal(t, FirstOrderNumber+i, order.OrderNumber)
		assert.NotZero(t, contact.ID)
		assert.Equal(t, contact.ID, order.ContactID)
		assert.Equal(t, "Amy", order.Contact.Name)
	}

	var contacts int64
	require.NoError(t, r.DB.Model(&models.Contact{}).Count(&contacts).Error)
	assert.EqualValues(t, 3, contacts, "every order gets its own contact row")
}

// takeOrderNumber makes the first n order inserts collide with a row that
// already holds the same order number. It returns the insert attempt counter.
func takeOrderNumber(t *testing.T, gdb *gorm.DB, n int) *int {
	t.Helper()

	attempts := 0
	err := gdb.Callback().Create().Before("gorm:create").Register("teashop:take_order_number", func(tx *gorm.DB) {
		order, ok := tx.Statement.Dest.(*models.Order)
		if !ok {
			return
		}
		attempts++
		if attempts > n {
			return
		}
		err := tx.Session(&gorm.Session{NewDB: true}).Exec(
			`INSERT INTO "order" (order_id, status, final_amount, items_json, created_at, contact_id) VALUES (?, ?, ?, ?, ?, ?)`,
			order.OrderNumber, models.OrderStatusPending, 0, "[]", order.CreatedAt, order.ContactID,
		).Error
		assert.NoError(t, err)
	})
	require.NoError(t, err)
	return &attempts
}

func countRows(t *testing.T, gdb *gorm.DB, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, gdb.Model(model).Count(&n).Error)
	return n
}

func TestGormRepo_CreateOrder_RetriesTakenNumber(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}
	ctx := context.Background()
	now := time.Now().In(models.ShopZone)

	contact, order := newOrder(now)
	require.NoError(t, r.CreateOrder(ctx, contact, order))

	attempts := takeOrderNumber(t, r.DB, 1)

	contact, order = newOrder(now.Add(time.Minute))
	require.NoError(t, r.CreateOrder(ctx, contact, order))

	assert.Equal(t, 2, *attempts)
	assert.Equal(t, FirstOrderNumber+1, order.OrderNumber)
	assert.Equal(t, contact.ID, order.ContactID)
	assert.EqualValues(t, 2, countRows(t, r.DB, &models.Order{}))
	assert.EqualValues(t, 2, countRows(t, r.DB, &models.Contact{}), "failed attempt leaves no contact behind")
}

func TestGormRepo_CreateOrder_GivesUpAfterMaxAttempts(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}
	ctx := context.Background()

	attempts := takeOrderNumber(t, r.DB, maxOrderNumberAttempts)

	contact, order := newOrder(time.Now().In(models.ShopZone))
	err := r.CreateOrder(ctx, contact, order)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOrderNumberConflict)
	assert.True(t, isDuplicateKey(err))

	assert.Equal(t, maxOrderNumberAttempts, *attempts)
	assert.Zero(t, countRows(t, r.DB, &models.Order{}))
	assert.Zero(t, countRows(t, r.DB, &models.Contact{}))
}

func TestGormRepo_ListOrdersWithContact_NewestFirst(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}
	ctx := context.Background()
	now := time.Now().In(models.ShopZone)

	for i := 0; i < 3; i++ {
		contact, order := newOrder(now)
		contact.Name = []string{"a", "b", "c"}[i]
		require.NoError(t, r.CreateOrder(ctx, contact, order))
	}

	orders, err := r.ListOrdersWithContact(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)

	assert.Equal(t, FirstOrderNumber+2, orders[0].OrderNumber)
	assert.Equal(t, "c", orders[0].Contact.Name)
	assert.Equal(t, "a", orders[2].Contact.Name)
	assert.Greater(t, orders[0].ID, orders[1].ID)
}

func TestGormRepo_FindByPhone_ExactMatch(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}
	ctx := context.Background()
	now := time.Now().In(models.ShopZone)

	for _, phone := range []string{"123", "0912345123", "456", "123"} {
		contact, order := newOrder(now)
		contact.Phone = phone
		require.NoError(t, r.CreateOrder(ctx, contact, order))
		now = now.Add(time.Minute)
	}

	ids, err := r.FindContactIDsByPhone(ctx, "123")
	require.NoError(t, err)
	require.Len(t, ids, 2)

	orders, err := r.ListOrdersByContactIDs(ctx, ids)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, FirstOrderNumber+3, orders[0].OrderNumber, "newest first")
	assert.Equal(t, FirstOrderNumber, orders[1].OrderNumber)
	assert.Equal(t, "123", orders[0].Contact.Phone)

	empty, err := r.ListOrdersByContactIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGormRepo_ClearAll_RestartsNumbering(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}
	ctx := context.Background()
	now := time.Now().In(models.ShopZone)

	for i := 0; i < 2; i++ {
		contact, order := newOrder(now)
		require.NoError(t, r.CreateOrder(ctx, contact, order))
	}

	deleted, err := r.ClearAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	var contacts int64
	require.NoError(t, r.DB.Model(&models.Contact{}).Count(&contacts).Error)
	assert.Zero(t, contacts)

	contact, order := newOrder(now)
	require.NoError(t, r.CreateOrder(ctx, contact, order))
	assert.Equal(t, FirstOrderNumber, order.OrderNumber)
}

func TestGormRepo_Ping(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}
	require.NoError(t, r.Ping(context.Background()))
}

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "translated", err: gorm.ErrDuplicatedKey, want: true},
		{name: "wrapped", err: errors.Join(errors.New("tx"), gorm.ErrDuplicatedKey), want: true},
		{name: "sqlite", err: errors.New("constraint failed: UNIQUE constraint failed: order.order_id (2067)"), want: true},
		{name: "postgres", err: errors.New(`ERROR: duplicate key value violates unique constraint "idx_order_order_id"`), want: true},
		{name: "other", err: errors.New("disk I/O error"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDuplicateKey(tt.err))
		})
	}
}
