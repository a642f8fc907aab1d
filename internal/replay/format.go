package replay

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// WriteText renders the trace one line per event and wrapper. Events are
// prefixed with their sign, wrappers with "=".
func (t *Trace) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "scenario: %s\n", t.Scenario); err != nil {
		return err
	}
	for i, st := range t.Steps {
		if _, err := fmt.Fprintf(w, "step %d: %s\n", i+1, st.Action); err != nil {
			return err
		}
		for _, ev := range st.Events {
			if _, err := fmt.Fprintf(w, "  %s\n", ev); err != nil {
				return err
			}
		}
		for _, s := range st.State {
			if _, err := fmt.Fprintf(w, "  = %s\n", s); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteYAML renders the trace as a YAML document.
func (t *Trace) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode trace: %w", err)
	}
	return enc.Close()
}
