package pgrepo

import (
	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/golang/mock/gomock"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func (s *RepositoryTestSuite) TestCartGetOrCreate() {
	repo := NewCartRepository(s.mockDB)
	s.mockDB.EXPECT().QueryRow(gomock.Any(), getOrCreateCartSQL, int64(10)).
		Return(fakeRow{values: []any{int64(3), s.now, int64(10)}})

	cart, err := repo.GetOrCreate(s.T().Context(), 10)
	s.Require().NoError(err)
	s.Equal(int64(3), cart.ID)
	s.Equal(int64(10), cart.UserID)
}

func (s *RepositoryTestSuite) TestCartAddItemAccumulates() {
	repo := NewCartRepository(s.mockDB)
	s.mockDB.EXPECT().QueryRow(gomock.Any(), addCartItemSQL, int64(3), int64(5), int64(2)).
		Return(fakeRow{values: []any{int64(1), int64(3), int64(5), int64(6), s.now}})

	item, err := repo.AddItem(s.T().Context(), 3, 5, 2)
	s.Require().NoError(err)
	s.Equal(int64(6), item.Quantity, "quantity comes from the upserted row")
	s.Contains(addCartItemSQL, "cart_items.quantity + EXCLUDED.quantity")
}

func (s *RepositoryTestSuite) TestCartAddItemUnknownProduct() {
	repo := NewCartRepository(s.mockDB)
	s.mockDB.EXPECT().QueryRow(gomock.Any(), addCartItemSQL, int64(3), int64(404), int64(1)).
		Return(fakeRow{err: &pgconn.PgError{Code: foreignKeyViolationCode}})

	_, err := repo.AddItem(s.T().Context(), 3, 404, 1)
	s.Require().ErrorIs(err, domain.ErrConflict)
}

func (s *RepositoryTestSuite) TestCartDeleteItem() {
	repo := NewCartRepository(s.mockDB)
	s.mockDB.EXPECT().Exec(gomock.Any(), deleteCartItemSQL, int64(1)).
		Return(pgconn.NewCommandTag("DELETE 1"), nil)
	s.Require().NoError(repo.DeleteItem(s.T().Context(), 1))

	s.mockDB.EXPECT().Exec(gomock.Any(), deleteCartItemSQL, int64(2)).
		Return(pgconn.NewCommandTag("DELETE 0"), nil)
	s.Require().ErrorIs(repo.DeleteItem(s.T().Context(), 2), domain.ErrRecordNotFound)
}

func (s *RepositoryTestSuite) TestCartClearEmpty() {
	repo := NewCartRepository(s.mockDB)
	s.mockDB.EXPECT().Exec(gomock.Any(), clearCartSQL, int64(3)).
		Return(pgconn.NewCommandTag("DELETE 0"), nil)
	s.Require().NoError(repo.Clear(s.T().Context(), 3))
}

func (s *RepositoryTestSuite) TestCategoryCreate() {
	repo := NewCategoryRepository(s.mockDB)
	parentID := int64(2)
	args := repoargs.CreateCategory{VendorID: 7, ParentID: &parentID, Name: "Mugs", Slug: "mugs-7"}
	s.mockDB.EXPECT().
		QueryRow(gomock.Any(), createCategorySQL, args.VendorID, args.ParentID, args.Name, args.Slug, args.ImageURL).
		Return(fakeRow{values: []any{int64(4), s.now, s.now, int64(7), &parentID, "Mugs", "mugs-7", ""}})

	category, err := repo.Create(s.T().Context(), args)
	s.Require().NoError(err)
	s.Equal(int64(4), category.ID)
	s.Require().NotNil(category.ParentID)
	s.Equal(parentID, *category.ParentID)
}

func (s *RepositoryTestSuite) TestCategoryAssignDuplicate() {
	repo := NewCategoryRepository(s.mockDB)
	s.mockDB.EXPECT().Exec(gomock.Any(), assignProductCategorySQL, int64(1), int64(4)).
		Return(pgconn.CommandTag{}, &pgconn.PgError{Code: uniqueViolationCode})

	s.Require().ErrorIs(repo.AssignProduct(s.T().Context(), 1, 4), domain.ErrDuplicateKey)
}

func (s *RepositoryTestSuite) TestCategoryUnassignMissing() {
	repo := NewCategoryRepository(s.mockDB)
	s.mockDB.EXPECT().Exec(gomock.Any(), unassignProductCategorySQL, int64(1), int64(4)).
		Return(pgconn.NewCommandTag("DELETE 0"), nil)

	s.Require().ErrorIs(repo.UnassignProduct(s.T().Context(), 1, 4), domain.ErrRecordNotFound)
}

func (s *RepositoryTestSuite) TestFeedbackHasPurchased() {
	repo := NewFeedbackRepository(s.mockDB)
	s.mockDB.EXPECT().QueryRow(gomock.Any(), hasPurchasedSQL, int64(10), int64(5)).
		Return(fakeRow{values: []any{true}})
	s.mockDB.EXPECT().QueryRow(gomock.Any(), hasPurchasedSQL, int64(10), int64(6)).
		Return(fakeRow{values: []any{false}})

	bought, err := repo.HasPurchased(s.T().Context(), 10, 5)
	s.Require().NoError(err)
	s.True(bought)

	bought, err = repo.HasPurchased(s.T().Context(), 10, 6)
	s.Require().NoError(err)
	s.False(bought)
	s.Contains(hasPurchasedSQL, "'delivered', 'completed'")
}

func (s *RepositoryTestSuite) TestFeedbackListByProduct() {
	repo := NewFeedbackRepository(s.mockDB)
	rows := &fakeRows{rows: []fakeRow{
		{values: []any{int64(2), s.now, int64(10), int64(5), 4, "good"}},
		{values: []any{int64(1), s.now, int64(11), int64(5), 2, ""}},
	}}
	s.mockDB.EXPECT().Query(gomock.Any(), listFeedbackByProductSQL, int64(5)).Return(rows, nil)

	feedback, err := repo.ListByProduct(s.T().Context(), 5)
	s.Require().NoError(err)
	s.Require().Len(feedback, 2)
	s.Equal(4, feedback[0].Rating)
	s.True(rows.closed)
}

func (s *RepositoryTestSuite) TestFeedbackRatingCheck() {
	repo := NewFeedbackRepository(s.mockDB)
	args := repoargs.CreateFeedback{UserID: 10, ProductID: 5, Rating: 9}
	s.mockDB.EXPECT().QueryRow(gomock.Any(), createFeedbackSQL, args.UserID, args.ProductID, args.Rating, args.Comment).
		Return(fakeRow{err: &pgconn.PgError{Code: checkViolationCode}})

	_, err := repo.Create(s.T().Context(), args)
	s.Require().ErrorIs(err, domain.ErrConflict)
}

func (s *RepositoryTestSuite) TestWishlistAddDuplicate() {
	repo := NewWishlistRepository(s.mockDB)
	args := repoargs.AddWishlistItem{UserID: 10, ProductID: 5, VendorID: 7}
	s.mockDB.EXPECT().QueryRow(gomock.Any(), addWishlistItemSQL, args.UserID, args.ProductID, args.VendorID).
		Return(fakeRow{err: &pgconn.PgError{Code: uniqueViolationCode}})

	_, err := repo.Add(s.T().Context(), args)
	s.Require().ErrorIs(err, domain.ErrDuplicateKey)
}

func (s *RepositoryTestSuite) TestWishlistRemove() {
	repo := NewWishlistRepository(s.mockDB)
	s.mockDB.EXPECT().Exec(gomock.Any(), removeWishlistItemSQL, int64(10), int64(5)).
		Return(pgconn.NewCommandTag("DELETE 1"), nil)
	s.Require().NoError(repo.Remove(s.T().Context(), 10, 5))

	s.mockDB.EXPECT().Exec(gomock.Any(), removeWishlistItemSQL, int64(10), int64(6)).
		Return(pgconn.CommandTag{}, pgx.ErrNoRows)
	s.Require().ErrorIs(repo.Remove(s.T().Context(), 10, 6), domain.ErrRecordNotFound)
}
