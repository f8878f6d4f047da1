package ledger

// Rank is a customer tier by lifetime spend.
type Rank string

const (
	RankSilver  Rank = "Silver"
	RankGold    Rank = "Gold"
	RankDiamond Rank = "Diamond"
)

const (
	goldThreshold    = 500_000
	diamondThreshold = 5_000_000
)

func RankOf(lifetimeSpend int64) Rank {
	switch {
	case lifetimeSpend >= diamondThreshold:
		return RankDiamond
	case lifetimeSpend >= goldThreshold:
		return RankGold
	}
	return RankSilver
}
