package repoargs

type CreateCategory struct {
	VendorID int64
	ParentID *int64
	Name     string
	Slug     string
	ImageURL string
}

// UpdateCategory заменяет изменяемые поля категории. Владелец категории не меняется.
type UpdateCategory struct {
	ParentID *int64
	Name     string
	Slug     string
	ImageURL string
}

type CreateFeedback struct {
	UserID    int64
	ProductID int64
	Rating    int
	Comment   string
}

type AddWishlistItem struct {
	UserID    int64
	ProductID int64
	VendorID  int64
}
