package schema_test

import (
	"context"
	"testing"

	"github.com/Mukungiisaac/Sakeja/internal/booking"
	"github.com/Mukungiisaac/Sakeja/internal/db"
	"github.com/Mukungiisaac/Sakeja/internal/house"
	"github.com/Mukungiisaac/Sakeja/internal/item"
	"github.com/Mukungiisaac/Sakeja/internal/metrics"
	"github.com/Mukungiisaac/Sakeja/internal/schema"
	"github.com/Mukungiisaac/Sakeja/internal/testutil/testdb"
	"github.com/Mukungiisaac/Sakeja/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositories_Shared(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pg := testdb.SetupSharedPostgres(t)
	pg.Migrate(t, schema.Tables()...)

	m := metrics.NewMock()
	users := user.NewRepository(pg.DB, m)
	houses := house.NewRepository(pg.DB, m)
	items := item.NewRepository(pg.DB, m)
	bookings := booking.NewRepository(pg.DB, m)
	ctx := context.Background()

	newUser := func(t *testing.T, email string, role user.Role) *user.User {
		t.Helper()
		u, err := users.Create(ctx, &user.User{Email: email, Name: email, Password: "hash", Role: role})
		require.NoError(t, err)
		return u
	}

	t.Run("User_EmailIsUnique", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, schema.TableNames...)
		newUser(t, "a@x.com", user.RoleLandlord)

		_, err := users.Create(ctx, &user.User{Email: "a@x.com", Name: "other", Password: "hash", Role: user.RoleStudent})
		require.Error(t, err)
		assert.True(t, db.IsUniqueViolation(err))
	})

	t.Run("User_ApprovalLifecycle", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, schema.TableNames...)
		landlord := newUser(t, "l@x.com", user.RoleLandlord)
		newUser(t, "s@x.com", user.RoleSeller)
		newUser(t, "st@x.com", user.RoleStudent)
		assert.False(t, landlord.IsApproved)

		pending, err := users.ListManaged(ctx, false)
		require.NoError(t, err)
		assert.Len(t, pending, 2, "students are never listed")

		require.NoError(t, users.SetApproved(ctx, landlord.ID, true))
		got, err := users.GetByID(ctx, landlord.ID)
		require.NoError(t, err)
		assert.True(t, got.IsApproved)

		approved, err := users.ListManaged(ctx, true)
		require.NoError(t, err)
		require.Len(t, approved, 1)
		assert.Equal(t, "l@x.com", approved[0].Email)

		assert.ErrorIs(t, users.SetApproved(ctx, 9999, true), user.ErrUserNotFound)
		_, err = users.GetByEmail(ctx, "nobody@x.com")
		assert.ErrorIs(t, err, db.ErrNotFound)
	})

	t.Run("House_CRUD", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, schema.TableNames...)
		landlord := newUser(t, "l@x.com", user.RoleLandlord)

		created, err := houses.Create(ctx, &house.House{
			Title:      "Room A",
			Rent:       5000,
			Photo:      "a.jpg",
			LandlordID: landlord.ID,
		})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Nil(t, created.Deposit)

		deposit := 2500.0
		created.Title = "Room A (renovated)"
		created.Deposit = &deposit
		created.Wifi = true
		require.NoError(t, houses.Update(ctx, created))

		got, err := houses.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Room A (renovated)", got.Title)
		require.NotNil(t, got.Deposit)
		assert.Equal(t, 2500.0, *got.Deposit)
		assert.True(t, got.Wifi)

		keys, err := houses.ListPhotosByLandlord(ctx, landlord.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.jpg"}, keys)

		require.NoError(t, houses.Delete(ctx, created.ID))
		_, err = houses.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, house.ErrHouseNotFound)
		assert.ErrorIs(t, houses.Delete(ctx, created.ID), house.ErrHouseNotFound)
	})

	t.Run("Item_ListBySeller", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, schema.TableNames...)
		seller := newUser(t, "s@x.com", user.RoleSeller)
		other := newUser(t, "o@x.com", user.RoleSeller)

		_, err := items.Create(ctx, &item.Item{Title: "Desk", Price: 1200, Photo: "d.png", SellerID: seller.ID})
		require.NoError(t, err)
		_, err = items.Create(ctx, &item.Item{Title: "Lamp", Price: 300, SellerID: other.ID})
		require.NoError(t, err)

		mine, err := items.ListBySeller(ctx, seller.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, "Desk", mine[0].Title)

		all, err := items.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		keys, err := items.ListPhotosBySeller(ctx, other.ID)
		require.NoError(t, err)
		assert.Empty(t, keys, "items without a photo are skipped")
	})

	t.Run("Booking_ListForLandlord", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, schema.TableNames...)
		landlord := newUser(t, "l@x.com", user.RoleLandlord)
		other := newUser(t, "o@x.com", user.RoleLandlord)

		mine, err := houses.Create(ctx, &house.House{Title: "Room A", LandlordID: landlord.ID})
		require.NoError(t, err)
		theirs, err := houses.Create(ctx, &house.House{Title: "Room B", LandlordID: other.ID})
		require.NoError(t, err)

		for _, houseID := range []int{mine.ID, theirs.ID} {
			_, err := bookings.Create(ctx, &booking.Booking{
				HouseID:      houseID,
				StudentName:  "Jane",
				StudentEmail: "jane@x.com",
				StudentPhone: "0700",
				IDNumber:     "123",
				MoveInDate:   "2025-01-01",
			})
			require.NoError(t, err)
		}

		list, err := bookings.ListForLandlord(ctx, landlord.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.NotNil(t, list[0].House)
		assert.Equal(t, "Room A", list[0].House.Title)
		assert.Empty(t, list[0].Message)
	})

	t.Run("DeletingUserCascades", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, schema.TableNames...)
		landlord := newUser(t, "l@x.com", user.RoleLandlord)
		seller := newUser(t, "s@x.com", user.RoleSeller)

		h, err := houses.Create(ctx, &house.House{Title: "Room A", LandlordID: landlord.ID})
		require.NoError(t, err)
		_, err = items.Create(ctx, &item.Item{Title: "Desk", SellerID: seller.ID})
		require.NoError(t, err)
		_, err = bookings.Create(ctx, &booking.Booking{
			HouseID: h.ID, StudentName: "Jane", StudentEmail: "jane@x.com",
			StudentPhone: "0700", IDNumber: "123", MoveInDate: "soon",
		})
		require.NoError(t, err)

		require.NoError(t, users.Delete(ctx, landlord.ID))
		require.NoError(t, users.Delete(ctx, seller.ID))

		count := func(table string) int {
			n, err := pg.DB.NewSelect().Table(table).Count(ctx)
			require.NoError(t, err)
			return n
		}
		assert.Zero(t, count("houses"))
		assert.Zero(t, count("bookings"))
		assert.Zero(t, count("items"))
	})
}
