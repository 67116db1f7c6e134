package persist

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"github.com/lrforge/lrforge/clrerrors"
	"github.com/lrforge/lrforge/grammar"
	"github.com/lrforge/lrforge/table"
)

// magic and version identify the envelope format (spec §4.G: "a
// versioned, self-describing binary format"). The payload after the
// header is produced by github.com/dekarrin/rezi's EncBinary, wrapping
// a wireBundle whose own field-level encoding follows the teacher's
// length-prefixed int/string/bool style (internal/tunascript/binary.go).
const (
	magic          = "LRF1"
	currentVersion = uint16(1)
)

// Encode serializes a grammar and its already-assembled parse table
// into a single self-describing blob: a magic number and version header
// followed by the rezi-enveloped wireBundle payload. A fresh build id is
// stamped into the bundle so two builds of the same grammar can be told
// apart without re-diffing the whole table.
func Encode(g *grammar.Grammar[string], pt *table.ParseTable[string]) ([]byte, error) {
	return EncodeWithBuildID(g, pt, uuid.New().String())
}

// EncodeWithBuildID is Encode with an explicit build id, for callers
// (tests, reproducible builds) that want control over the stamped id
// rather than a freshly generated one.
func EncodeWithBuildID(g *grammar.Grammar[string], pt *table.ParseTable[string], buildID string) ([]byte, error) {
	bundle := bundleFrom(g, pt)
	bundle.BuildID = buildID
	payload := rezi.EncBinary(bundle)

	out := make([]byte, 0, len(magic)+2+len(payload))
	out = append(out, []byte(magic)...)
	out = binary.BigEndian.AppendUint16(out, currentVersion)
	out = append(out, payload...)
	return out, nil
}

// Decode parses a blob produced by Encode back into a grammar, its
// parse table, and the build id stamped at Encode time. The table's
// underlying automaton isn't part of the wire format (see
// table.FromComponents); only the ACTION/GOTO data survives the round
// trip, which is all a driver needs to parse.
func Decode(data []byte) (*grammar.Grammar[string], *table.ParseTable[string], string, error) {
	if len(data) < len(magic)+2 {
		return nil, nil, "", &clrerrors.SerializationError{Message: "blob too short to contain a header"}
	}
	if string(data[:len(magic)]) != magic {
		return nil, nil, "", &clrerrors.SerializationError{Message: fmt.Sprintf("bad magic number %q", data[:len(magic)])}
	}
	version := binary.BigEndian.Uint16(data[len(magic) : len(magic)+2])
	if version != currentVersion {
		return nil, nil, "", &clrerrors.SerializationError{Message: fmt.Sprintf("unsupported format version %d", version)}
	}

	var bundle wireBundle
	if _, err := rezi.DecBinary(data[len(magic)+2:], &bundle); err != nil {
		return nil, nil, "", &clrerrors.SerializationError{Message: fmt.Sprintf("decoding payload: %v", err)}
	}

	g, err := bundle.toGrammar()
	if err != nil {
		return nil, nil, "", &clrerrors.SerializationError{Message: fmt.Sprintf("reconstructing grammar: %v", err)}
	}
	pt := bundle.toTable()
	return g, pt, bundle.BuildID, nil
}

// ---- wire types ----

type wireElement struct {
	Kind    int
	Value   string
	Negated bool
	Name    string
	Keep    bool
}

func toWireElement(e grammar.GrammarElement[string]) wireElement {
	return wireElement{Kind: int(e.Kind), Value: e.Value, Negated: e.Negated, Name: e.Name, Keep: e.Keep}
}

func (w wireElement) toElement() grammar.GrammarElement[string] {
	e := grammar.GrammarElement[string]{Kind: grammar.Kind(w.Kind), Value: w.Value, Negated: w.Negated, Name: w.Name, Keep: w.Keep}
	return e
}

type wireProduction struct {
	LHS string
	RHS []wireElement
}

func toWireProduction(p grammar.Production[string]) wireProduction {
	rhs := make([]wireElement, len(p.RHS))
	for i, e := range p.RHS {
		rhs[i] = toWireElement(e)
	}
	return wireProduction{LHS: p.LHS.Name, RHS: rhs}
}

func (w wireProduction) toProduction() grammar.Production[string] {
	rhs := make([]grammar.GrammarElement[string], len(w.RHS))
	for i, e := range w.RHS {
		rhs[i] = e.toElement()
	}
	return grammar.Production[string]{LHS: grammar.NonTerminal[string](w.LHS), RHS: rhs}
}

type wireAction struct {
	Type       int
	State      int
	Production wireProduction
}

func toWireAction(a table.Action[string]) wireAction {
	return wireAction{Type: int(a.Type), State: a.State, Production: toWireProduction(a.Production)}
}

func (w wireAction) toAction() table.Action[string] {
	act := table.Action[string]{Type: table.ActionType(w.Type), State: w.State}
	if act.Type == table.Reduce {
		act.Production = w.Production.toProduction()
	}
	return act
}

type wireActionEntry struct {
	Key    string
	Action wireAction
}

type wireFallback struct {
	Present      bool
	NegatedValue string
	Action       wireAction
}

type wireGotoEntry struct {
	NonTerminal string
	State       int
}

type wireState struct {
	Actions  []wireActionEntry
	Fallback wireFallback
	Gotos    []wireGotoEntry
}

type wireBundle struct {
	BuildID      string
	Start        string
	EndOfInput   string
	Terminals    []string
	NonTerminals []string
	Productions  []wireProduction
	States       []wireState
}

func bundleFrom(g *grammar.Grammar[string], pt *table.ParseTable[string]) *wireBundle {
	b := &wireBundle{
		Start:      g.StartSymbol(),
		EndOfInput: g.EndOfInput().Value,
	}

	// skip the synthetic augmenting production (index 0); toGrammar
	// rebuilds it via grammar.New.
	for _, p := range g.Productions()[1:] {
		b.Productions = append(b.Productions, toWireProduction(p))
	}

	terms, nonTerms, actions, fallbacks, gotos := pt.Components()
	b.Terminals = terms
	b.NonTerminals = nonTerms

	b.States = make([]wireState, len(actions))
	for i := range actions {
		st := wireState{}
		for key, act := range actions[i] {
			st.Actions = append(st.Actions, wireActionEntry{Key: key, Action: toWireAction(act)})
		}
		if fallbacks[i] != nil {
			st.Fallback = wireFallback{Present: true, NegatedValue: fallbacks[i].NegatedValue, Action: toWireAction(fallbacks[i].Action)}
		}
		for nt, dest := range gotos[i] {
			st.Gotos = append(st.Gotos, wireGotoEntry{NonTerminal: nt, State: dest})
		}
		b.States[i] = st
	}

	return b
}

func (b *wireBundle) toGrammar() (*grammar.Grammar[string], error) {
	prods := make([]grammar.Production[string], len(b.Productions))
	for i, wp := range b.Productions {
		prods[i] = wp.toProduction()
	}
	return grammar.New[string](b.Start, b.EndOfInput, prods)
}

func (b *wireBundle) toTable() *table.ParseTable[string] {
	actions := make([]map[string]table.Action[string], len(b.States))
	fallbacks := make([]*table.FallbackState[string], len(b.States))
	gotos := make([]map[string]int, len(b.States))

	for i, st := range b.States {
		am := map[string]table.Action[string]{}
		for _, entry := range st.Actions {
			am[entry.Key] = entry.Action.toAction()
		}
		actions[i] = am

		if st.Fallback.Present {
			fallbacks[i] = &table.FallbackState[string]{
				NegatedValue: st.Fallback.NegatedValue,
				Action:       st.Fallback.Action.toAction(),
			}
		}

		gm := map[string]int{}
		for _, entry := range st.Gotos {
			gm[entry.NonTerminal] = entry.State
		}
		gotos[i] = gm
	}

	return table.FromComponents(b.Terminals, b.NonTerminals, actions, fallbacks, gotos)
}

// ---- length-prefixed field encoding, matching tunascript/binary.go's
// style: every value is self-delimiting so MarshalBinary/UnmarshalBinary
// can be implemented as straight-line concatenation/consumption. ----

func encInt(i int) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, uint64(int64(i)))
	return out
}

// decInt always reads exactly 8 bytes.
func decInt(data []byte) (int, error) {
	if len(data) < 8 {
		return 0, fmt.Errorf("unexpected end of data reading int")
	}
	return int(int64(binary.BigEndian.Uint64(data[:8]))), nil
}

func encBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

func decBool(data []byte) (bool, error) {
	if len(data) < 1 {
		return false, fmt.Errorf("unexpected end of data reading bool")
	}
	return data[0] == 1, nil
}

func encStr(s string) []byte {
	body := []byte(s)
	out := encInt(utf8.RuneCountInString(s))
	out = append(out, body...)
	return out
}

// decStr reads a rune-count-prefixed string and returns it plus the
// total bytes consumed (8 for the count, plus the UTF-8 byte length of
// the string itself).
func decStr(data []byte) (string, int, error) {
	runeCount, err := decInt(data)
	if err != nil {
		return "", 0, err
	}
	data = data[8:]
	consumed := 8

	start := 0
	for i := 0; i < runeCount; i++ {
		_, size := utf8.DecodeRune(data[start:])
		if size == 0 {
			return "", 0, fmt.Errorf("unexpected end of data in string")
		}
		start += size
	}
	return string(data[:start]), consumed + start, nil
}

// ---- element/production/action/state encode-decode, each a plain
// (bytes) / (value, bytesConsumed, error) pair in the style of
// tunascript/binary.go's decBinaryX helpers ----

func (w wireElement) encode() []byte {
	out := encInt(w.Kind)
	out = append(out, encStr(w.Value)...)
	out = append(out, encBool(w.Negated)...)
	out = append(out, encStr(w.Name)...)
	out = append(out, encBool(w.Keep)...)
	return out
}

func decWireElement(data []byte) (wireElement, int, error) {
	var w wireElement
	total := 0

	kind, err := decInt(data)
	if err != nil {
		return w, 0, err
	}
	w.Kind = kind
	data, total = data[8:], total+8

	value, n, err := decStr(data)
	if err != nil {
		return w, 0, err
	}
	w.Value = value
	data, total = data[n:], total+n

	negated, err := decBool(data)
	if err != nil {
		return w, 0, err
	}
	w.Negated = negated
	data, total = data[1:], total+1

	name, n, err := decStr(data)
	if err != nil {
		return w, 0, err
	}
	w.Name = name
	data, total = data[n:], total+n

	keep, err := decBool(data)
	if err != nil {
		return w, 0, err
	}
	w.Keep = keep
	total++

	return w, total, nil
}

func (w wireProduction) encode() []byte {
	out := encStr(w.LHS)
	out = append(out, encInt(len(w.RHS))...)
	for _, e := range w.RHS {
		out = append(out, e.encode()...)
	}
	return out
}

func decWireProduction(data []byte) (wireProduction, int, error) {
	var w wireProduction
	total := 0

	lhs, n, err := decStr(data)
	if err != nil {
		return w, 0, err
	}
	w.LHS = lhs
	data, total = data[n:], total+n

	count, err := decInt(data)
	if err != nil {
		return w, 0, err
	}
	data, total = data[8:], total+8

	for i := 0; i < count; i++ {
		e, n, err := decWireElement(data)
		if err != nil {
			return w, 0, err
		}
		w.RHS = append(w.RHS, e)
		data, total = data[n:], total+n
	}

	return w, total, nil
}

func (w wireAction) encode() []byte {
	out := encInt(w.Type)
	out = append(out, encInt(w.State)...)
	out = append(out, w.Production.encode()...)
	return out
}

func decWireAction(data []byte) (wireAction, int, error) {
	var w wireAction
	total := 0

	typ, err := decInt(data)
	if err != nil {
		return w, 0, err
	}
	w.Type = typ
	data, total = data[8:], total+8

	state, err := decInt(data)
	if err != nil {
		return w, 0, err
	}
	w.State = state
	data, total = data[8:], total+8

	prod, n, err := decWireProduction(data)
	if err != nil {
		return w, 0, err
	}
	w.Production = prod
	total += n

	return w, total, nil
}

func (w wireActionEntry) encode() []byte {
	out := encStr(w.Key)
	out = append(out, w.Action.encode()...)
	return out
}

func decWireActionEntry(data []byte) (wireActionEntry, int, error) {
	var w wireActionEntry
	total := 0

	key, n, err := decStr(data)
	if err != nil {
		return w, 0, err
	}
	w.Key = key
	data, total = data[n:], total+n

	act, n, err := decWireAction(data)
	if err != nil {
		return w, 0, err
	}
	w.Action = act
	total += n

	return w, total, nil
}

func (w wireFallback) encode() []byte {
	out := encBool(w.Present)
	out = append(out, encStr(w.NegatedValue)...)
	out = append(out, w.Action.encode()...)
	return out
}

func decWireFallback(data []byte) (wireFallback, int, error) {
	var w wireFallback
	total := 0

	present, err := decBool(data)
	if err != nil {
		return w, 0, err
	}
	w.Present = present
	data, total = data[1:], total+1

	val, n, err := decStr(data)
	if err != nil {
		return w, 0, err
	}
	w.NegatedValue = val
	data, total = data[n:], total+n

	act, n, err := decWireAction(data)
	if err != nil {
		return w, 0, err
	}
	w.Action = act
	total += n

	return w, total, nil
}

func (w wireGotoEntry) encode() []byte {
	out := encStr(w.NonTerminal)
	out = append(out, encInt(w.State)...)
	return out
}

func decWireGotoEntry(data []byte) (wireGotoEntry, int, error) {
	var w wireGotoEntry
	total := 0

	nt, n, err := decStr(data)
	if err != nil {
		return w, 0, err
	}
	w.NonTerminal = nt
	data, total = data[n:], total+n

	state, err := decInt(data)
	if err != nil {
		return w, 0, err
	}
	w.State = state
	total += 8

	return w, total, nil
}

func (w wireState) encode() []byte {
	out := encInt(len(w.Actions))
	for _, a := range w.Actions {
		out = append(out, a.encode()...)
	}
	out = append(out, w.Fallback.encode()...)
	out = append(out, encInt(len(w.Gotos))...)
	for _, g := range w.Gotos {
		out = append(out, g.encode()...)
	}
	return out
}

func decWireState(data []byte) (wireState, int, error) {
	var w wireState
	total := 0

	actionCount, err := decInt(data)
	if err != nil {
		return w, 0, err
	}
	data, total = data[8:], total+8

	for i := 0; i < actionCount; i++ {
		entry, n, err := decWireActionEntry(data)
		if err != nil {
			return w, 0, err
		}
		w.Actions = append(w.Actions, entry)
		data, total = data[n:], total+n
	}

	fb, n, err := decWireFallback(data)
	if err != nil {
		return w, 0, err
	}
	w.Fallback = fb
	data, total = data[n:], total+n

	gotoCount, err := decInt(data)
	if err != nil {
		return w, 0, err
	}
	data, total = data[8:], total+8

	for i := 0; i < gotoCount; i++ {
		entry, n, err := decWireGotoEntry(data)
		if err != nil {
			return w, 0, err
		}
		w.Gotos = append(w.Gotos, entry)
		data, total = data[n:], total+n
	}

	return w, total, nil
}

// MarshalBinary implements encoding.BinaryMarshaler so wireBundle can be
// passed directly to rezi.EncBinary, matching how the teacher's sqlite
// DAO layer calls rezi.EncBinary(s.State) / rezi.EncBinary(g) (server/
// dao/sqlite/sessions.go, sqlite.go).
func (b *wireBundle) MarshalBinary() ([]byte, error) {
	out := encStr(b.BuildID)
	out = append(out, encStr(b.Start)...)
	out = append(out, encStr(b.EndOfInput)...)

	out = append(out, encInt(len(b.Terminals))...)
	for _, t := range b.Terminals {
		out = append(out, encStr(t)...)
	}

	out = append(out, encInt(len(b.NonTerminals))...)
	for _, nt := range b.NonTerminals {
		out = append(out, encStr(nt)...)
	}

	out = append(out, encInt(len(b.Productions))...)
	for _, p := range b.Productions {
		out = append(out, p.encode()...)
	}

	out = append(out, encInt(len(b.States))...)
	for _, s := range b.States {
		out = append(out, s.encode()...)
	}

	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, mirroring
// rezi.DecBinary(stateData, g)'s call-site contract (server/dao/sqlite/
// sqlite.go).
func (b *wireBundle) UnmarshalBinary(data []byte) error {
	buildID, n, err := decStr(data)
	if err != nil {
		return err
	}
	b.BuildID = buildID
	data = data[n:]

	start, n, err := decStr(data)
	if err != nil {
		return err
	}
	b.Start = start
	data = data[n:]

	eoi, n, err := decStr(data)
	if err != nil {
		return err
	}
	b.EndOfInput = eoi
	data = data[n:]

	termCount, err := decInt(data)
	if err != nil {
		return err
	}
	data = data[8:]
	for i := 0; i < termCount; i++ {
		t, n, err := decStr(data)
		if err != nil {
			return err
		}
		b.Terminals = append(b.Terminals, t)
		data = data[n:]
	}

	ntCount, err := decInt(data)
	if err != nil {
		return err
	}
	data = data[8:]
	for i := 0; i < ntCount; i++ {
		nt, n, err := decStr(data)
		if err != nil {
			return err
		}
		b.NonTerminals = append(b.NonTerminals, nt)
		data = data[n:]
	}

	prodCount, err := decInt(data)
	if err != nil {
		return err
	}
	data = data[8:]
	for i := 0; i < prodCount; i++ {
		p, n, err := decWireProduction(data)
		if err != nil {
			return err
		}
		b.Productions = append(b.Productions, p)
		data = data[n:]
	}

	stateCount, err := decInt(data)
	if err != nil {
		return err
	}
	data = data[8:]
	for i := 0; i < stateCount; i++ {
		s, n, err := decWireState(data)
		if err != nil {
			return err
		}
		b.States = append(b.States, s)
		data = data[n:]
	}

	if len(data) != 0 {
		return fmt.Errorf("%d unrecognized trailing bytes after table data", len(data))
	}
	return nil
}
