package domain

// Table is a mongo collection name
type Table string

const (
	TableListings           Table = "listings"
	TableBids               Table = "bids"
	TableOffers             Table = "offers"
	TableWatchlistEntries   Table = "watchlist_entries"
	TableRatings            Table = "ratings"
	TableAccounts           Table = "accounts"
	TableNotificationEvents Table = "notification_events"
)

// UserId identifies a marketplace user. Identity resolution happens outside
// the core; every operation trusts a pre-validated UserId.
type UserId string

func (u UserId) String() string {
	return string(u)
}

func (u UserId) IsEmpty() bool {
	return len(u) == 0
}

type SortDir int8

const (
	SortDirAsc  SortDir = 1
	SortDirDesc SortDir = -1
)
