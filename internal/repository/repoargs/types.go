package repoargs

type RepositoryName string

const (
	UserRepoName               RepositoryName = "user"
	ProductRepoName            RepositoryName = "product"
	VoucherRepoName            RepositoryName = "voucher"
	OrderRepoName              RepositoryName = "order"
	BalanceTransactionRepoName RepositoryName = "balance_transaction"
	CartRepoName               RepositoryName = "cart"
	CategoryRepoName           RepositoryName = "category"
	FeedbackRepoName           RepositoryName = "feedback"
	WishlistRepoName           RepositoryName = "wishlist"
)

// Pagination параметры постраничной выборки. Limit = 0 означает значение по умолчанию репозитория.
type Pagination struct {
	Limit  uint
	Offset uint
}
