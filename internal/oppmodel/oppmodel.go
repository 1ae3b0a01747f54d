// Package oppmodel reads and writes the opponent model and per-skill
// historical data as simple line-structured text files: one line per
// record, "<name>: <data>". This mirrors
// Steamhammer's Skill::read/write, which does one std::getline per record
// rather than any binary or database format — binary/SQL persistence is
// explicitly not required.
package oppmodel

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/1siamBot/bwmacro/internal/botlog"
	"github.com/1siamBot/bwmacro/internal/gameapi"
)

// Record is one parsed "<name>: <data>" line.
type Record struct {
	Name string
	Data string
}

// ParseLine splits one line into its name/data halves. Lines without a
// colon are reported invalid rather than silently dropped, so a corrupted
// file surfaces instead of quietly losing history.
func ParseLine(line string) (Record, error) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return Record{}, fmt.Errorf("oppmodel: malformed line %q: missing ':'", line)
	}
	return Record{
		Name: strings.TrimSpace(line[:idx]),
		Data: strings.TrimSpace(line[idx+1:]),
	}, nil
}

// Read parses every line of r into Records, skipping blank lines. A
// malformed line is logged and skipped rather than aborting the whole read
// — one bad line in a long-lived history file shouldn't discard the rest.
func Read(r io.Reader) ([]Record, error) {
	var records []Record
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := ParseLine(line)
		if err != nil {
			botlog.Warn("skipping malformed opponent-model line", botlog.F("error", err.Error()))
			continue
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return records, err
	}
	return records, nil
}

// Write serializes records back out, one "<name>: <data>" line each,
// matching Skill::write's one-record-per-line format.
func Write(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if _, err := fmt.Fprintf(bw, "%s: %s\n", rec.Name, rec.Data); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Matchup is one historical win/loss record for a specific opponent,
// parsed from a "matchup: <opponent> <wins> <losses>" record.
type Matchup struct {
	Opponent     string
	Wins, Losses int
}

// MatchupRecordName is the record name matchup lines use.
const MatchupRecordName = "matchup"

// EncodeMatchup turns a Matchup into its persisted line data.
func EncodeMatchup(m Matchup) Record {
	return Record{Name: MatchupRecordName, Data: fmt.Sprintf("%s %d %d", m.Opponent, m.Wins, m.Losses)}
}

// DecodeMatchup parses a matchup record's data field back into a Matchup.
func DecodeMatchup(data string) (Matchup, error) {
	parts := strings.Fields(data)
	if len(parts) != 3 {
		return Matchup{}, fmt.Errorf("oppmodel: malformed matchup data %q", data)
	}
	wins, err := strconv.Atoi(parts[1])
	if err != nil {
		return Matchup{}, err
	}
	losses, err := strconv.Atoi(parts[2])
	if err != nil {
		return Matchup{}, err
	}
	return Matchup{Opponent: parts[0], Wins: wins, Losses: losses}, nil
}

// Model holds the in-memory view of one opponent's history, loaded from and
// saved back to a line-structured text file. The core never picks the file
// path itself; it's injected as configuration.
type Model struct {
	Matchups map[string]Matchup
	Skills   map[string]string // skill name -> raw skill-specific data
}

// NewModel returns an empty Model.
func NewModel() *Model {
	return &Model{Matchups: make(map[string]Matchup), Skills: make(map[string]string)}
}

// LoadModel reads a Model from r, tolerating and logging malformed lines.
func LoadModel(r io.Reader) (*Model, error) {
	records, err := Read(r)
	if err != nil {
		return nil, err
	}
	m := NewModel()
	for _, rec := range records {
		if rec.Name == MatchupRecordName {
			mu, err := DecodeMatchup(rec.Data)
			if err != nil {
				botlog.Warn("skipping malformed matchup record", botlog.F("error", err.Error()))
				continue
			}
			m.Matchups[mu.Opponent] = mu
			continue
		}
		m.Skills[rec.Name] = rec.Data
	}
	return m, nil
}

// Save writes every matchup and skill record back out.
func (m *Model) Save(w io.Writer) error {
	var records []Record
	for _, mu := range m.Matchups {
		records = append(records, EncodeMatchup(mu))
	}
	for name, data := range m.Skills {
		records = append(records, Record{Name: name, Data: data})
	}
	return Write(w, records)
}

// RecordResult updates (or creates) a matchup's win/loss tally.
func (m *Model) RecordResult(opponent string, won bool) {
	mu := m.Matchups[opponent]
	mu.Opponent = opponent
	if won {
		mu.Wins++
	} else {
		mu.Losses++
	}
	m.Matchups[opponent] = mu
}

// Matchup satisfies gameapi.OpponentHistory.
func (m *Model) Matchup(opponentName string) (gameapi.MatchupRecord, bool) {
	mu, ok := m.Matchups[opponentName]
	return gameapi.MatchupRecord{OpponentName: mu.Opponent, Wins: mu.Wins, Losses: mu.Losses}, ok
}

// BestGuessPlan returns the recorded best-guess plan name for an opponent,
// if any was ever persisted as a skill record keyed "bestguess:<opponent>".
func (m *Model) BestGuessPlan(opponentName string) (string, bool) {
	data, ok := m.Skills["bestguess:"+opponentName]
	return data, ok
}

// RunID tags one run of the bot so skill data written this session can be
// distinguished from prior runs when diffing history files, using
// google/uuid the way the wider example corpus tags long-lived records.
func RunID() string {
	return uuid.NewString()
}
