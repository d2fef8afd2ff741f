package domain

const (
	JournalTypeBuy  = "buy"
	JournalTypeSell = "sell"

	// DailyCandlesLimit caps how many intraday candles the quotes endpoint
	// returns to clients.
	DailyCandlesLimit = 50
)
