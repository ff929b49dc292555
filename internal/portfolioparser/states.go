package portfolioparser

// state is one named state of the statement scanner.
type state string

const (
	stateHeader           state = "Header"
	statePortfolioSummary state = "PortfolioSummary"
	statePropertySection  state = "PropertySection"
	stateExpenseList      state = "ExpenseList"
	stateDone             state = "Done"
)

// event is the classification of a single input line.
type event string

const (
	evOwnerHeader   event = "owner-header"
	evPeriod        event = "period"
	evSummaryHeader event = "summary-header"
	evSummaryMetric event = "summary-metric"
	evAddress       event = "address"
	evLeaseTerms    event = "lease-terms"
	evIncomeTotal   event = "income-total"
	evExpenseHeader event = "expense-header"
	evExpenseItem   event = "expense-item"
	evExpenseTotal  event = "expense-total"
	evSectionMetric event = "section-metric"
	evNOI           event = "noi"
	evBlank         event = "blank"
	evNoise         event = "noise"
)

// transitions is the explicit state transition table. A (state, event) pair
// missing from the table means the line is consumed without changing state;
// unexpected lines are tolerated, never fatal.
var transitions = map[state]map[event]state{
	stateHeader: {
		evSummaryHeader: statePortfolioSummary,
		evAddress:       statePropertySection,
	},
	statePortfolioSummary: {
		evAddress: statePropertySection,
	},
	statePropertySection: {
		evExpenseHeader: stateExpenseList,
		evAddress:       statePropertySection,
	},
	stateExpenseList: {
		evExpenseTotal: statePropertySection,
		evBlank:        statePropertySection,
		evAddress:      statePropertySection,
	},
}

// next returns the state that follows applying event in state.
func next(current state, ev event) state {
	if row, ok := transitions[current]; ok {
		if to, ok := row[ev]; ok {
			return to
		}
	}
	return current
}
