package forecast

import "fmt"

// InvalidInputError reports a required column missing from the input
// table. Data insufficiency is not an error; pipeline functions return
// nil results for it so batch callers can skip the dish and continue.
type InvalidInputError struct {
	Column string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("required column %q missing from input table", e.Column)
}
