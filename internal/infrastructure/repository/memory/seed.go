package memory

import (
	"time"

	"github.com/dimasprk/matchday/internal/domain/match"
	"github.com/dimasprk/matchday/internal/domain/player"
	"github.com/dimasprk/matchday/internal/domain/roster"
	"github.com/dimasprk/matchday/internal/domain/team"
)

const (
	TeamIDGarudaFC  = "team-garuda-fc"
	TeamIDRajawali  = "team-rajawali-utd"
	TeamIDBintang   = "team-bintang-timur"
	CaptainGaruda   = "user-captain-garuda"
	CaptainRajawali = "user-captain-rajawali"
	CaptainBintang  = "user-captain-bintang"
)

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: TeamIDGarudaFC, Name: "Garuda FC", Short: "GAR", CaptainID: CaptainGaruda, City: "Jakarta"},
		{ID: TeamIDRajawali, Name: "Rajawali United", Short: "RJW", CaptainID: CaptainRajawali, City: "Bandung"},
		{ID: TeamIDBintang, Name: "Bintang Timur", Short: "BTT", CaptainID: CaptainBintang, City: "Surabaya"},
	}
}

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: CaptainGaruda, Name: "Bima Sakti"},
		{ID: CaptainRajawali, Name: "Raka Wijaya"},
		{ID: CaptainBintang, Name: "Eko Pratama"},
		{ID: "user-garuda-01", Name: "Andi Saputra"},
		{ID: "user-garuda-02", Name: "Dimas Nugroho"},
		{ID: "user-garuda-03", Name: "Fajar Ramadhan"},
		{ID: "user-rajawali-01", Name: "Galih Permana"},
		{ID: "user-rajawali-02", Name: "Hendra Gunawan"},
		{ID: "user-rajawali-03", Name: "Ilham Maulana"},
		{ID: "user-bintang-01", Name: "Joko Santoso"},
		{ID: "user-bintang-02", Name: "Krisna Adi"},
	}
}

func SeedMatches() []match.Match {
	createdAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	return []match.Match{
		{
			ID:                "match-public-001",
			Type:              match.TypePublic,
			TeamAID:           TeamIDGarudaFC,
			Status:            match.StatusPending,
			MaxPlayersPerTeam: 7,
			CreatedBy:         CaptainGaruda,
			KickoffAt:         time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC),
			Venue:             "Lapangan Banteng",
			CreatedAt:         createdAt,
			UpdatedAt:         createdAt,
		},
		{
			ID:                "match-friendly-001",
			Type:              match.TypeFriendly,
			TeamAID:           TeamIDRajawali,
			Status:            match.StatusPending,
			MaxPlayersPerTeam: 11,
			CreatedBy:         CaptainRajawali,
			KickoffAt:         time.Date(2026, 3, 21, 16, 0, 0, 0, time.UTC),
			Venue:             "GOR Pajajaran",
			CreatedAt:         createdAt,
			UpdatedAt:         createdAt,
		},
	}
}

func SeedRoster() []roster.MatchPlayer {
	createdAt := time.Date(2026, 3, 1, 9, 5, 0, 0, time.UTC)

	return []roster.MatchPlayer{
		{
			ID:         "mp-seed-001",
			MatchID:    "match-public-001",
			PlayerID:   CaptainGaruda,
			TeamSide:   match.SideA,
			JoinStatus: roster.JoinApproved,
			CreatedAt:  createdAt,
			UpdatedAt:  createdAt,
		},
		{
			ID:         "mp-seed-002",
			MatchID:    "match-public-001",
			PlayerID:   "user-garuda-01",
			TeamSide:   match.SideA,
			JoinStatus: roster.JoinApproved,
			CreatedAt:  createdAt.Add(time.Minute),
			UpdatedAt:  createdAt.Add(time.Minute),
		},
	}
}
