package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/expressr/create-expressr-app/internal/addon"
	"github.com/expressr/create-expressr-app/internal/apperr"
)

// ErrCanceled is returned when input ends before a question is answered.
var ErrCanceled = errors.New("prompt canceled")

// MaxPort is the largest accepted port number.
const MaxPort = 65535

var (
	namePattern  = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	digitPattern = regexp.MustCompile(`^\d+$`)
)

// Config wires a Prompter to its input and output.
type Config struct {
	In          io.Reader
	Out         io.Writer
	DefaultPort int
}

// Prompter asks questions one line at a time. Invalid answers print a
// message and repeat the question.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	defaultPort int
}

// New creates a Prompter. A zero DefaultPort means 3000.
func New(cfg Config) *Prompter {
	out := cfg.Out
	if out == nil {
		out = io.Discard
	}
	port := cfg.DefaultPort
	if port <= 0 {
		port = 3000
	}
	return &Prompter{in: bufio.NewReader(cfg.In), out: out, defaultPort: port}
}

// ValidateName checks a project name. It is used both for prompted names
// and names given on the command line.
func ValidateName(name string) error {
	if name == "" {
		return apperr.UserInput("project name is required")
	}
	if !namePattern.MatchString(name) {
		return apperr.UserInput("invalid project name %q: use only letters, numbers, dashes and underscores", name)
	}
	return nil
}

// ProjectName asks for the project name until a valid one is entered.
func (p *Prompter) ProjectName() (string, error) {
	for {
		fmt.Fprint(p.out, "📝 What is your project named? ")
		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		if err := ValidateName(line); err != nil {
			fmt.Fprintf(p.out, "   %v\n", err)
			continue
		}
		return line, nil
	}
}

// Port asks for the port. An empty answer or 0 selects the default.
func (p *Prompter) Port() (int, error) {
	for {
		fmt.Fprintf(p.out, "🌐 What port would you like to use? (default: %d) ", p.defaultPort)
		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		if line == "" {
			return p.defaultPort, nil
		}
		if !digitPattern.MatchString(line) {
			fmt.Fprintln(p.out, "   Port must be a number")
			continue
		}
		port, err := strconv.Atoi(line)
		if err != nil || port > MaxPort {
			fmt.Fprintf(p.out, "   Port must be between 1 and %d\n", MaxPort)
			continue
		}
		if port == 0 {
			return p.defaultPort, nil
		}
		return port, nil
	}
}

// Addons lists the available addons and reads a comma-separated list of
// numbers. With no addons available nothing is asked.
func (p *Prompter) Addons(available []*addon.Descriptor) ([]*addon.Descriptor, error) {
	if len(available) == 0 {
		return nil, nil
	}

	fmt.Fprintln(p.out, "\n🧩 Available addons:")
	for i, d := range available {
		fmt.Fprintf(p.out, "  %d) %s - %s\n", i+1, d.DisplayName(), d.Description)
	}
	fmt.Fprint(p.out, "Select addons (comma-separated numbers, empty for none): ")

	line, err := p.readLine()
	if err != nil {
		return nil, err
	}

	var selected []*addon.Descriptor
	for _, idx := range ParseSelection(line, len(available)) {
		selected = append(selected, available[idx-1])
	}
	return selected, nil
}

// ParseSelection parses a comma-separated list of 1-based indexes. Tokens
// that are not integers in [1, n] are dropped, as are repeats. The result
// keeps input order.
func ParseSelection(input string, n int) []int {
	var result []int
	seen := make(map[int]bool)
	for _, tok := range strings.Split(input, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil || idx < 1 || idx > n || seen[idx] {
			continue
		}
		seen[idx] = true
		result = append(result, idx)
	}
	return result
}

// readLine reads one trimmed line. A final line without a newline is still
// returned; EOF with nothing read is ErrCanceled.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return "", ErrCanceled
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
