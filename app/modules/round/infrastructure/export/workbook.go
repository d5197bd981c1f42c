package roundexport

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	leaderboarddomain "github.com/Black-And-White-Club/golf-bot/app/modules/leaderboard/domain"
	rounddomain "github.com/Black-And-White-Club/golf-bot/app/modules/round/domain"
	scoredomain "github.com/Black-And-White-Club/golf-bot/app/modules/score/domain"
	"github.com/xuri/excelize/v2"
)

// SummarySheet is the name of the ranked leaderboard sheet.
const SummarySheet = "Leaderboard"

const maxSheetName = 31

var (
	summaryHeader = []any{"Pos", "Player", "Handicap", "Tees", "Thru", "Gross", "To Par", "Net", "Points", "Putts", "FIR", "GIR", "Snake", "Prizes"}
	holeHeader    = []any{"Hole", "Par", "SI", "Score", "Putts", "FIR", "GIR", "Points", "CTP", "LD"}

	unsafeSheetChars = regexp.MustCompile(`[\[\]:*?/\\]`)
	unsafeFileChars  = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

// Input is everything a workbook is rendered from.
type Input struct {
	Round *rounddomain.Round
	Board leaderboarddomain.Board
	// Snapshots are the participants on the board, looked up by scorecard id.
	Snapshots []*rounddomain.Snapshot
	// Course is nil when the course is not in the catalog; par, SI and points
	// columns are then left blank.
	Course scoredomain.CourseData
}

// Filename derives a download name from the round.
func Filename(round *rounddomain.Round) string {
	name := "round"
	if round != nil {
		if n := strings.Trim(unsafeFileChars.ReplaceAllString(round.Name, "-"), "-"); n != "" {
			name = n
		}
		if round.Date != "" {
			name += "_" + round.Date
		}
	}
	return name + ".xlsx"
}

// Render builds the workbook: a leaderboard sheet first, then one sheet per
// participant in board order.
func Render(in Input) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if err := writeSummary(f, in.Board); err != nil {
		return nil, err
	}

	byID := make(map[string]*rounddomain.Snapshot, len(in.Snapshots))
	for _, s := range in.Snapshots {
		byID[s.ID] = s
	}

	used := map[string]bool{SummarySheet: true}
	for _, e := range in.Board.Entries {
		snap, ok := byID[e.ScorecardID]
		if !ok {
			continue
		}
		sheet := sheetName(e.Position, snap.DisplayName(), used)
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("failed to add sheet %q: %w", sheet, err)
		}
		if err := writeScorecard(f, sheet, snap, in.Round, in.Course); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, board leaderboarddomain.Board) error {
	if err := setRow(f, SummarySheet, 1, summaryHeader); err != nil {
		return err
	}
	for i, e := range board.Entries {
		t := e.Totals.Total
		points := any("")
		toPar := any("")
		if board.HasCourseData {
			points = t.Stableford
			toPar = e.ScoreDisplay
		}
		snake := ""
		if e.HasSnake {
			snake = "yes"
		}
		row := []any{
			e.Position, e.PlayerName, e.Handicap, e.Tees, e.HoleDisplay,
			t.Score, toPar, e.NetScore, points, t.Putts, t.FairwaysHit, t.GreensHit,
			snake, prizeLabels(e.Prizes),
		}
		if err := setRow(f, SummarySheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeScorecard(f *excelize.File, sheet string, snap *rounddomain.Snapshot, round *rounddomain.Round, course scoredomain.CourseData) error {
	if err := setRow(f, sheet, 1, holeHeader); err != nil {
		return err
	}
	for hole := 1; hole <= scoredomain.HoleCount; hole++ {
		rec := snap.Holes.Hole(hole)
		score := ""
		if !rec.Score.IsZero() {
			score = rec.Score.String()
		}
		row := []any{hole, "", "", score, "", mark(rec.FairwayInRegulation), mark(rec.GreenInRegulation), "", "", ""}
		if course != nil {
			if par, si, ok := course.HoleInfo(hole, snap.Tees); ok {
				row[1], row[2] = par, si
				if _, scored := rec.Score.Strokes(); scored {
					row[7] = scoredomain.StablefordPoints(rec.Score, par, si, snap.Handicap)
				}
			}
		}
		if n, ok := rec.PuttCount(); ok {
			row[4] = n
		}
		if round != nil && round.PrizeConfigured(hole, rounddomain.PrizeClosestToPin) {
			row[8] = distance(rec.ClosestToPinDistance)
		}
		if round != nil && round.PrizeConfigured(hole, rounddomain.PrizeLongestDrive) {
			row[9] = distance(rec.LongestDriveDistance)
		}
		if err := setRow(f, sheet, hole+1, row); err != nil {
			return err
		}
	}

	totals := scoredomain.CalculateTotals(&snap.Holes, course, snap.Tees, snap.Handicap)
	for i, split := range []struct {
		label string
		s     scoredomain.Split
	}{{"Out", totals.Front9}, {"In", totals.Back9}, {"Total", totals.Total}} {
		row := []any{split.label, split.s.Par, "", split.s.Score, split.s.Putts, split.s.FairwaysHit, split.s.GreensHit, split.s.Stableford}
		if !totals.HasCourseData {
			row[1], row[7] = "", ""
		}
		if err := setRow(f, sheet, scoredomain.HoleCount+2+i, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// sheetName makes a unique, valid sheet name for a participant.
func sheetName(position int, player string, used map[string]bool) string {
	base := strings.TrimSpace(unsafeSheetChars.ReplaceAllString(player, " "))
	if base == "" {
		base = "Player"
	}
	base = strconv.Itoa(position) + ". " + base
	name := truncate(base, maxSheetName)
	for n := 2; used[name]; n++ {
		suffix := " (" + strconv.Itoa(n) + ")"
		name = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	used[name] = true
	return name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func mark(b bool) string {
	if b {
		return "Y"
	}
	return ""
}

func distance(d scoredomain.Distance) any {
	if v, ok := d.Value(); ok {
		return v
	}
	return ""
}

func prizeLabels(prizes []rounddomain.HolePrize) string {
	labels := make([]string, 0, len(prizes))
	for _, p := range prizes {
		labels = append(labels, fmt.Sprintf("%s #%d", strings.ToUpper(string(p.Type)), p.Hole))
	}
	return strings.Join(labels, ", ")
}
