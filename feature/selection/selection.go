package selection

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"patrician/core/collection"
	"patrician/core/reconcile"
)

// Selection is the accepted subset of a plan.
type Selection struct {
	NewItems []collection.Item
	Updates  []reconcile.SingleItemUpdate
}

// FieldUpdateCount returns the number of accepted field updates.
func (s *Selection) FieldUpdateCount() int {
	n := 0
	for _, su := range s.Updates {
		n += len(su.Updates)
	}
	return n
}

// Empty reports whether nothing was accepted.
func (s *Selection) Empty() bool {
	return len(s.NewItems) == 0 && s.FieldUpdateCount() == 0
}

// Selector narrows a plan to the changes that will be merged.
type Selector interface {
	Select(ctx context.Context, plan *reconcile.Plan) (*Selection, error)
}

// AcceptAll selects every proposed change.
type AcceptAll struct{}

// Select returns the combined plan unchanged.
func (AcceptAll) Select(_ context.Context, plan *reconcile.Plan) (*Selection, error) {
	combined := plan.Combined()
	return &Selection{NewItems: combined.NewItems, Updates: combined.UpdatedItems}, nil
}

// HintFunc returns existing items resembling a proposed new item.
type HintFunc func(item collection.Item) []reconcile.NearMatch

// Prompter asks the user about every proposed change.
//
// Answers are y (accept), n (reject), a (accept this and the rest of the
// section) and q (reject this and everything after it). End of input
// counts as q.
type Prompter struct {
	in    *bufio.Reader
	out   io.Writer
	hints HintFunc
}

// NewPrompter reads answers from in and writes questions to out. hints may be nil.
func NewPrompter(in io.Reader, out io.Writer, hints HintFunc) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, hints: hints}
}

type answer int

const (
	answerNo answer = iota
	answerYes
	answerAll
	answerQuit
)

// Select walks new items first, then field updates.
func (p *Prompter) Select(ctx context.Context, plan *reconcile.Plan) (*Selection, error) {
	combined := plan.Combined()
	sel := &Selection{}

	if len(combined.NewItems) > 0 {
		fmt.Fprintf(p.out, "\nSelect new albums to import (%d):\n", len(combined.NewItems))
	}
	acceptRest := false
	for _, item := range combined.NewItems {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !acceptRest {
			p.printHints(item)
			switch p.ask(describeItem(item)) {
			case answerQuit:
				return sel, nil
			case answerNo:
				continue
			case answerAll:
				acceptRest = true
			}
		}
		sel.NewItems = append(sel.NewItems, item)
	}

	total := combined.FieldUpdateCount()
	if total > 0 {
		fmt.Fprintf(p.out, "\nSelect updates to apply (%d):\n", total)
	}
	acceptRest = false
	for _, su := range combined.UpdatedItems {
		var accepted []reconcile.FieldUpdate
		for _, fu := range su.Updates {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if !acceptRest {
				switch p.ask(describeUpdate(su, fu)) {
				case answerQuit:
					sel.addUpdate(su, accepted)
					return sel, nil
				case answerNo:
					continue
				case answerAll:
					acceptRest = true
				}
			}
			accepted = append(accepted, fu)
		}
		sel.addUpdate(su, accepted)
	}

	return sel, nil
}

// addUpdate keeps su with only the accepted field updates.
func (s *Selection) addUpdate(su reconcile.SingleItemUpdate, accepted []reconcile.FieldUpdate) {
	if len(accepted) == 0 {
		return
	}
	su.Updates = accepted
	s.Updates = append(s.Updates, su)
}

func (p *Prompter) ask(question string) answer {
	for {
		fmt.Fprintf(p.out, "  %s [y/n/a/q] ", question)
		line, err := p.in.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return answerYes
		case "n", "no":
			return answerNo
		case "a", "all":
			return answerAll
		case "q", "quit":
			return answerQuit
		}
		if err != nil {
			fmt.Fprintln(p.out)
			return answerQuit
		}
	}
}

func (p *Prompter) printHints(item collection.Item) {
	if p.hints == nil {
		return
	}
	for _, near := range p.hints(item) {
		fmt.Fprintf(p.out, "  ! similar to existing %s (%.2f)\n", near.Item, near.Score)
	}
}

func describeItem(item collection.Item) string {
	var details []string
	if item.ReleaseDate != "" {
		details = append(details, item.ReleaseDate)
	}
	if item.Rating != "" {
		details = append(details, "rated "+item.Rating)
	}
	if item.Plays != "" {
		details = append(details, item.Plays+" plays")
	}
	if len(details) == 0 {
		return item.String()
	}
	return fmt.Sprintf("%s (%s)", item.String(), strings.Join(details, ", "))
}

func describeUpdate(su reconcile.SingleItemUpdate, fu reconcile.FieldUpdate) string {
	from := ""
	if fu.OldValue != "" {
		from = "from " + fu.OldValue + " "
	}
	return fmt.Sprintf("%s: Update %s %sto %s [%s]", su.Item, fu.Field, from, fu.NewValue, su.Source)
}
