package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/LanceSports/LanceSports-sub000/internal/domain/fixture"
	qb "github.com/LanceSports/LanceSports-sub000/internal/platform/querybuilder"
	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
)

// Postgres caps a statement at 65535 bind parameters; the widest row here has
// 26 columns.
const upsertChunkSize = 500

var fixtureUpdateColumns = []string{
	"league_id",
	"season",
	"round",
	"kickoff_at",
	"kickoff_timestamp",
	"timezone",
	"referee",
	"venue_id",
	"venue_name",
	"venue_city",
	"status_long",
	"status_short",
	"status_elapsed",
	"home_team_id",
	"home_team_name",
	"home_team_logo",
	"home_winner",
	"away_team_id",
	"away_team_name",
	"away_team_logo",
	"away_winner",
	"goals_home",
	"goals_away",
	"score",
}

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

var _ fixture.Repository = (*FixtureRepository)(nil)

// SaveBatch upserts the fixtures and, for detailed ones, replaces their
// events and statistics. The whole batch commits or none of it does.
func (r *FixtureRepository) SaveBatch(ctx context.Context, items []fixture.Enriched) error {
	items = lastByID(items)
	if len(items) == 0 {
		return nil
	}

	fixtures := make([]fixtureTableModel, 0, len(items))
	detailedIDs := make([]int64, 0, len(items))
	events := make([]fixtureEventInsertModel, 0)
	teamStats := make([]teamStatisticsInsertModel, 0)
	playerStats := make([]playerStatisticsInsertModel, 0)
	for _, item := range items {
		row, err := toFixtureModel(item)
		if err != nil {
			return err
		}
		fixtures = append(fixtures, row)
		if !item.Detailed {
			continue
		}
		detailedIDs = append(detailedIDs, item.Fixture.ID)
		events = append(events, toEventModels(item.Fixture.ID, item.Detail.Events)...)
		stats, err := toTeamStatisticsModels(item.Fixture.ID, item.Detail.Statistics)
		if err != nil {
			return err
		}
		teamStats = append(teamStats, stats...)
		players, err := toPlayerStatisticsModels(item.Fixture.ID, item.Detail.Players)
		if err != nil {
			return err
		}
		playerStats = append(playerStats, players...)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save fixtures tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, chunk := range chunks(fixtures, upsertChunkSize) {
		builder, err := qb.InsertModels("fixtures", chunk)
		if err != nil {
			return fmt.Errorf("build upsert fixtures query: %w", err)
		}
		query, args, err := builder.
			OnConflict("id").
			DoUpdateExcluded(fixtureUpdateColumns...).
			DoUpdateExpr("detailed", "fixtures.detailed OR EXCLUDED.detailed").
			DoUpdateExpr("updated_at", "NOW()").
			ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert fixtures query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert fixtures: %w", err)
		}
	}

	if len(detailedIDs) > 0 {
		if err := replaceDetail(ctx, tx, detailedIDs, events, teamStats, playerStats); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save fixtures tx: %w", err)
	}
	return nil
}

func replaceDetail(
	ctx context.Context,
	tx *sqlx.Tx,
	fixtureIDs []int64,
	events []fixtureEventInsertModel,
	teamStats []teamStatisticsInsertModel,
	playerStats []playerStatisticsInsertModel,
) error {
	for _, table := range []string{"fixture_events", "fixture_team_statistics", "fixture_player_statistics"} {
		query, args, err := qb.DeleteFrom(table).Where(qb.InInt64("fixture_id", fixtureIDs)).ToSQL()
		if err != nil {
			return fmt.Errorf("build delete %s query: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}

	if err := insertChunks(ctx, tx, "fixture_events", events); err != nil {
		return err
	}
	if err := insertChunks(ctx, tx, "fixture_team_statistics", teamStats); err != nil {
		return err
	}
	return insertChunks(ctx, tx, "fixture_player_statistics", playerStats)
}

func insertChunks[M any](ctx context.Context, tx *sqlx.Tx, table string, rows []M) error {
	for _, chunk := range chunks(rows, upsertChunkSize) {
		builder, err := qb.InsertModels(table, chunk)
		if err != nil {
			return fmt.Errorf("build insert %s query: %w", table, err)
		}
		query, args, err := builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert %s query: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

func (r *FixtureRepository) ListByLeague(ctx context.Context, leagueID int64, season int) ([]fixture.Fixture, error) {
	columns := append([]string{"id"}, fixtureUpdateColumns...)
	columns = append(columns, "detailed")
	query, args, err := qb.Select(columns...).From("fixtures").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("season", season),
		).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixtures by league query: %w", err)
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fixtures by league: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("fixture %d: %w", row.ID, err)
		}
		out = append(out, item)
	}
	return out, nil
}

// lastByID collapses repeated ids so a single upsert statement never touches
// the same row twice. The later occurrence wins, as it would across batches.
func lastByID(items []fixture.Enriched) []fixture.Enriched {
	index := make(map[int64]int, len(items))
	out := make([]fixture.Enriched, 0, len(items))
	for _, item := range items {
		if item.Fixture.ID <= 0 {
			continue
		}
		if pos, ok := index[item.Fixture.ID]; ok {
			out[pos] = item
			continue
		}
		index[item.Fixture.ID] = len(out)
		out = append(out, item)
	}
	return out
}

func chunks[M any](rows []M, size int) [][]M {
	out := make([][]M, 0, len(rows)/size+1)
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		out = append(out, rows[start:end])
	}
	return out
}

func toFixtureModel(item fixture.Enriched) (fixtureTableModel, error) {
	f := item.Fixture
	score, err := sonic.Marshal(scoreDocument{
		HalfTime:  goalsDocument(f.Score.HalfTime),
		FullTime:  goalsDocument(f.Score.FullTime),
		ExtraTime: goalsDocument(f.Score.ExtraTime),
		Penalty:   goalsDocument(f.Score.Penalty),
	})
	if err != nil {
		return fixtureTableModel{}, fmt.Errorf("encode score fixture=%d: %w", f.ID, err)
	}

	return fixtureTableModel{
		ID:            f.ID,
		LeagueID:      f.LeagueID,
		Season:        f.Season,
		Round:         f.Round,
		KickoffAt:     f.Date.UTC(),
		Timestamp:     f.Timestamp,
		Timezone:      f.Timezone,
		Referee:       f.Referee,
		VenueID:       sql.NullInt64{Int64: f.Venue.ID, Valid: f.Venue.ID > 0},
		VenueName:     f.Venue.Name,
		VenueCity:     f.Venue.City,
		StatusLong:    f.Status.Long,
		StatusShort:   string(f.Status.Short),
		StatusElapsed: nullInt32(f.Status.Elapsed),
		HomeTeamID:    f.Teams.Home.ID,
		HomeTeamName:  f.Teams.Home.Name,
		HomeTeamLogo:  f.Teams.Home.Logo,
		HomeWinner:    nullBool(f.Teams.Home.Winner),
		AwayTeamID:    f.Teams.Away.ID,
		AwayTeamName:  f.Teams.Away.Name,
		AwayTeamLogo:  f.Teams.Away.Logo,
		AwayWinner:    nullBool(f.Teams.Away.Winner),
		GoalsHome:     nullInt32(f.Goals.Home),
		GoalsAway:     nullInt32(f.Goals.Away),
		Score:         score,
		Detailed:      item.Detailed,
	}, nil
}

func (row fixtureTableModel) toDomain() (fixture.Fixture, error) {
	var score scoreDocument
	if len(row.Score) > 0 {
		if err := sonic.Unmarshal(row.Score, &score); err != nil {
			return fixture.Fixture{}, fmt.Errorf("decode score: %w", err)
		}
	}

	return fixture.Fixture{
		ID:        row.ID,
		LeagueID:  row.LeagueID,
		Season:    row.Season,
		Round:     row.Round,
		Date:      row.KickoffAt.UTC(),
		Timestamp: row.Timestamp,
		Timezone:  row.Timezone,
		Referee:   row.Referee,
		Venue: fixture.Venue{
			ID:   row.VenueID.Int64,
			Name: row.VenueName,
			City: row.VenueCity,
		},
		Status: fixture.Status{
			Long:    row.StatusLong,
			Short:   fixture.NormalizeStatus(row.StatusShort),
			Elapsed: intPtr(row.StatusElapsed),
		},
		Teams: fixture.Teams{
			Home: fixture.Participant{
				ID:     row.HomeTeamID,
				Name:   row.HomeTeamName,
				Logo:   row.HomeTeamLogo,
				Winner: boolPtr(row.HomeWinner),
			},
			Away: fixture.Participant{
				ID:     row.AwayTeamID,
				Name:   row.AwayTeamName,
				Logo:   row.AwayTeamLogo,
				Winner: boolPtr(row.AwayWinner),
			},
		},
		Goals: fixture.Goals{
			Home: intPtr(row.GoalsHome),
			Away: intPtr(row.GoalsAway),
		},
		Score: fixture.Score{
			HalfTime:  fixture.Goals(score.HalfTime),
			FullTime:  fixture.Goals(score.FullTime),
			ExtraTime: fixture.Goals(score.ExtraTime),
			Penalty:   fixture.Goals(score.Penalty),
		},
	}, nil
}

func toEventModels(fixtureID int64, events []fixture.Event) []fixtureEventInsertModel {
	out := make([]fixtureEventInsertModel, 0, len(events))
	for i, event := range events {
		out = append(out, fixtureEventInsertModel{
			FixtureID:  fixtureID,
			Seq:        i,
			Elapsed:    event.Elapsed,
			Extra:      nullInt32(event.Extra),
			TeamID:     event.TeamID,
			TeamName:   event.TeamName,
			PlayerID:   event.PlayerID,
			PlayerName: event.PlayerName,
			AssistID:   event.AssistID,
			AssistName: event.AssistName,
			Type:       event.Type,
			Detail:     event.Detail,
			Comments:   event.Comments,
		})
	}
	return out
}

func toTeamStatisticsModels(fixtureID int64, stats []fixture.TeamStatistics) ([]teamStatisticsInsertModel, error) {
	out := make([]teamStatisticsInsertModel, 0, len(stats))
	seen := make(map[int64]struct{}, len(stats))
	for _, stat := range stats {
		if _, ok := seen[stat.TeamID]; ok {
			continue
		}
		seen[stat.TeamID] = struct{}{}
		encoded, err := sonic.Marshal(nonNilMap(stat.Values))
		if err != nil {
			return nil, fmt.Errorf("encode team statistics fixture=%d team=%d: %w", fixtureID, stat.TeamID, err)
		}
		out = append(out, teamStatisticsInsertModel{
			FixtureID: fixtureID,
			TeamID:    stat.TeamID,
			TeamName:  stat.TeamName,
			Stats:     encoded,
		})
	}
	return out, nil
}

func toPlayerStatisticsModels(fixtureID int64, teams []fixture.TeamPlayers) ([]playerStatisticsInsertModel, error) {
	out := make([]playerStatisticsInsertModel, 0)
	seen := make(map[int64]struct{})
	for _, team := range teams {
		for _, player := range team.Players {
			if player.PlayerID <= 0 {
				continue
			}
			if _, ok := seen[player.PlayerID]; ok {
				continue
			}
			seen[player.PlayerID] = struct{}{}
			encoded, err := sonic.Marshal(nonNilMap(player.Stats))
			if err != nil {
				return nil, fmt.Errorf("encode player statistics fixture=%d player=%d: %w", fixtureID, player.PlayerID, err)
			}
			out = append(out, playerStatisticsInsertModel{
				FixtureID:  fixtureID,
				PlayerID:   player.PlayerID,
				TeamID:     team.TeamID,
				PlayerName: player.Name,
				Stats:      encoded,
			})
		}
	}
	return out, nil
}

func nonNilMap(v map[string]any) map[string]any {
	if v == nil {
		return map[string]any{}
	}
	return v
}

func nullInt32(v *int) sql.NullInt32 {
	if v == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*v), Valid: true}
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}

func intPtr(v sql.NullInt32) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int32)
	return &out
}

func boolPtr(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	out := v.Bool
	return &out
}
