package bikeshare

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"tidbyt.dev/bikeshare/model"
)

// Outcome of validating one line of user input. Value holds the
// normalized input when OK.
type Answer struct {
	Value string
	OK    bool
}

type Validator func(input string) Answer

// A fixed set of accepted, lower case, answers to a prompt.
type Choices []string

var (
	CityChoices  = Choices(DefaultCatalog.Cities())
	MonthChoices = append(Choices{model.All}, model.Months...)
	DayChoices   = append(Choices{model.All}, model.Days...)
	YesNoChoices = Choices{"yes", "no"}
)

func (c Choices) Contains(s string) bool {
	for _, choice := range c {
		if choice == s {
			return true
		}
	}
	return false
}

// Lower cases the input and accepts it if it's one of the choices.
func (c Choices) Validate(input string) Answer {
	value := strings.ToLower(strings.TrimSpace(input))
	if !c.Contains(value) {
		return Answer{}
	}
	return Answer{Value: value, OK: true}
}

// Accepts "Yes" or "No" after title casing the input, i.e. any
// casing of yes or no, but nothing else. The value is lower case.
func ValidateRestart(input string) Answer {
	switch model.Title(input) {
	case "Yes", "No":
		return Answer{Value: strings.ToLower(strings.TrimSpace(input)), OK: true}
	}
	return Answer{}
}

// Prompter asks questions on the console until it gets an acceptable
// answer.
type Prompter struct {
	Out io.Writer

	in *bufio.Reader
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		Out: out,
		in:  bufio.NewReader(in),
	}
}

// Prints the question and reads lines until one passes validation.
// There is no retry limit; each rejected line prints invalid and asks
// again. Lines have no length limit. Running out of input is an error.
func (p *Prompter) Ask(question string, validate Validator, invalid string) (string, error) {
	for {
		fmt.Fprint(p.Out, question)

		line, err := p.in.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				return "", fmt.Errorf("reading input: %w", err)
			}
			// A final line without a newline is still an answer.
			if line == "" {
				return "", fmt.Errorf("reading input: %w", io.ErrUnexpectedEOF)
			}
		}

		answer := validate(strings.TrimRight(line, "\r\n"))
		if answer.OK {
			return answer.Value, nil
		}

		fmt.Fprintln(p.Out, invalid)
	}
}

// Asks for city, month and day of week.
func (p *Prompter) Filters() (model.Criteria, error) {
	fmt.Fprintln(p.Out, "Hello! Let's explore some US bikeshare data!")

	city, err := p.Ask(
		"Enter the name of the city to filter by.  Choices include: Chicago, New York City or Washington.\nCity : ",
		CityChoices.Validate,
		"Not a valid input for city.",
	)
	if err != nil {
		return model.Criteria{}, err
	}
	fmt.Fprintf(p.Out, "\nYou have selected %s\n\n", model.Title(city))

	month, err := p.Ask(
		"Enter the name of the month to filter by.  Choices include: January, February, March, April, May, June or All.\nMonth : ",
		MonthChoices.Validate,
		"Not a valid input for month.",
	)
	if err != nil {
		return model.Criteria{}, err
	}
	fmt.Fprintf(p.Out, "\nYou have selected %s\n\n", model.Title(month))

	day, err := p.Ask(
		"Enter the day of week to filter by.  Choices include: Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday or All.\nDay of Week : ",
		DayChoices.Validate,
		"Not a valid input for day of week.",
	)
	if err != nil {
		return model.Criteria{}, err
	}
	fmt.Fprintf(p.Out, "\nYou have selected %s\n\n", model.Title(day))

	fmt.Fprintln(p.Out, strings.Repeat("-", 40))

	return model.Criteria{City: city, Month: month, Day: day}, nil
}

// Asks a yes or no question. Returns true on yes.
func (p *Prompter) YesNo(question string) (bool, error) {
	answer, err := p.Ask(question, YesNoChoices.Validate, "Not a valid input.")
	if err != nil {
		return false, err
	}
	return answer == "yes", nil
}

// Asks whether to start over.
func (p *Prompter) Restart() (bool, error) {
	answer, err := p.Ask("\nWould you like to restart? Enter yes or no.\n", ValidateRestart, "Not a valid input.")
	if err != nil {
		return false, err
	}
	return answer == "yes", nil
}
