package userclient

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// promptAnswer reads one answer letter. skip is set for an empty line, "s"
// or end of input.
func promptAnswer(reader *bufio.Reader, out io.Writer, optionCount int) (answer string, skip, ok bool) {
	if optionCount < 1 {
		return "", true, false
	}

	maxLetter := byte('A' + optionCount - 1)
	fmt.Fprintf(out, "Your answer (A-%c, S to skip): ", maxLetter)

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", true, false
	}

	answer = strings.ToUpper(strings.TrimSpace(line))
	if answer == "" || answer == "S" {
		return "", true, false
	}
	if len(answer) != 1 {
		return "", false, false
	}
	letter := answer[0]
	if letter < 'A' || letter > maxLetter {
		return "", false, false
	}

	return answer, false, true
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  help")
	fmt.Fprintln(out, "  banks")
	fmt.Fprintln(out, "  import <bank_id> [amount]")
	fmt.Fprintln(out, "  play <bank_id>")
	fmt.Fprintln(out, "  exit")
}

func parseBankID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("must be a positive integer")
	}
	return id, nil
}

func parsePositiveLimit(args []string, index int, defaultValue int) (int, error) {
	if len(args) <= index {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(args[index])
	if err != nil || value <= 0 {
		return 0, errors.New("must be a positive integer")
	}
	return value, nil
}

func describeClientError(err error, serverURL string) error {
	if errors.Is(err, ErrServiceUnavailable) {
		return fmt.Errorf("quiz service unavailable at %s", serverURL)
	}
	return err
}
