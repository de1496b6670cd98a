package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

// launcher drives a dmenu-compatible program over stdin/stdout. rofi
// reports the selected row index; dmenu echoes the label back.
type launcher struct {
	command string
	rofi    bool
}

func newLauncher(command string) *launcher {
	return &launcher{command: command, rofi: command == "rofi"}
}

func (l *launcher) Show(prompt string, items []Item, message string) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("palette: no items to show")
	}

	rows := l.rows(items)
	cmd := exec.Command(l.command, l.args(prompt, message, items)...)
	cmd.Stdin = strings.NewReader(strings.Join(rows, "\n"))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))
	if err != nil {
		if selection == "" && isCancelExit(err) {
			return Item{}, ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Item{}, fmt.Errorf("%s failed: %s", l.command, msg)
		}
		return Item{}, fmt.Errorf("%s failed: %w", l.command, err)
	}
	if selection == "" {
		return Item{}, ErrCancelled
	}

	item, err := l.lookup(selection, items)
	if err != nil {
		return Item{}, err
	}
	if item.IsHeader {
		return Item{}, ErrCancelled
	}
	return item, nil
}

func (l *launcher) args(prompt, message string, items []Item) []string {
	if !l.rofi {
		args := []string{"-i", "-l", strconv.Itoa(len(items))}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		return args
	}

	// Index output keeps parsing independent of labels and markup.
	args := []string{"-dmenu", "-i", "-format", "i", "-no-custom", "-markup-rows", "-show-icons"}
	if prompt != "" {
		args = append(args, "-p", prompt)
	}
	if message != "" {
		args = append(args, "-mesg", message)
	}
	var active []string
	for i, item := range items {
		if item.IsActive && !item.IsHeader {
			active = append(active, strconv.Itoa(i))
		}
	}
	if len(active) > 0 {
		args = append(args, "-a", strings.Join(active, ","))
	}
	return args
}

// rows renders one input line per item. dmenu matches by text, so duplicate
// labels get a numeric suffix there.
func (l *launcher) rows(items []Item) []string {
	rows := make([]string, len(items))
	seen := make(map[string]int)
	for i, item := range items {
		label := cleanLabel(item.Label)
		if !l.rofi {
			if n := seen[label]; n > 0 {
				label = fmt.Sprintf("%s (%d)", label, n+1)
			}
			seen[cleanLabel(item.Label)]++
			rows[i] = label
			continue
		}

		label = html.EscapeString(label)
		if item.IsHeader {
			label = "<b>" + label + "</b>"
		}
		// rofi row properties: one NUL, then \x1f-separated key/value pairs.
		var props []string
		if item.IsHeader {
			props = append(props, "nonselectable", "true")
		}
		if item.Icon != "" {
			props = append(props, "icon", cleanField(item.Icon))
		}
		if len(props) > 0 {
			label += "\x00" + strings.Join(props, "\x1f")
		}
		rows[i] = label
	}
	return rows
}

func (l *launcher) lookup(selection string, items []Item) (Item, error) {
	if l.rofi {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(items) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return items[idx], nil
		}
	}
	rows := l.rows(items)
	for i, row := range rows {
		if row == selection {
			return items[i], nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func cleanLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func cleanField(value string) string {
	value = strings.ReplaceAll(value, "\x00", " ")
	value = strings.ReplaceAll(value, "\x1f", " ")
	return cleanLabel(value)
}

func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	// 1 is "no selection"; 130 is Ctrl+C.
	switch exitErr.ExitCode() {
	case 1, 130:
		return true
	default:
		return false
	}
}
