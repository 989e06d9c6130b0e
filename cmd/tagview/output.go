package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/tagandtake/tagandtake-server/internal/config"
	"github.com/tagandtake/tagandtake-server/internal/errors"
	"github.com/tagandtake/tagandtake-server/internal/service"
)

// printer writes one entry per rendered input, as a JSON line or a text block.
type printer struct {
	w    io.Writer
	text bool
}

func newPrinter(w io.Writer, format string) *printer {
	return &printer{w: w, text: format == config.OutputText}
}

// failure is the entry printed for an input that could not be rendered.
type failure struct {
	Source string      `json:"source,omitempty"`
	Error  failureBody `json:"error"`
}

type failureBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	Details any         `json:"details,omitempty"`
}

// Evaluation prints a rendered view.
func (p *printer) Evaluation(ev *service.Evaluation) error {
	if !p.text {
		return json.NewEncoder(p.w).Encode(ev)
	}

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	v := ev.View

	if ev.Source != "" {
		fmt.Fprintf(tw, "source\t%s\n", ev.Source)
	}
	fmt.Fprintf(tw, "tag\t%s\n", v.TagID)
	fmt.Fprintf(tw, "category\t%s\n", v.Category)
	fmt.Fprintf(tw, "role\t%s\n", v.Role)

	if msg := v.StatusMessage; msg != nil {
		fmt.Fprintf(tw, "status\t[%s] %s\n", msg.Icon, msg.MainText)
		for _, line := range []string{msg.SecondaryText, msg.AdditionalInfo} {
			if line != "" {
				fmt.Fprintf(tw, "\t%s\n", line)
			}
		}
	}

	if v.Action.Enabled {
		fmt.Fprintf(tw, "action\t%s %s\n", v.Action.Kind, v.Action.Target)
	} else {
		fmt.Fprintf(tw, "action\t%s (%s)\n", v.Action.Kind, v.Action.DisabledReason)
	}

	if s := v.Summary; s != nil {
		fmt.Fprintf(tw, "item\t%s\n", s.ItemName)
		fmt.Fprintf(tw, "price\t%s\n", s.Price)
		if s.ListedOn != "" {
			fmt.Fprintf(tw, "listed\t%s\n", s.ListedOn)
		}
	}
	fmt.Fprintf(tw, "run\t%s\n", v.RunID)

	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(p.w)
	return err
}

// Failure prints the entry for an input that could not be rendered.
func (p *printer) Failure(source string, err error) error {
	entry := failure{
		Source: source,
		Error: failureBody{
			Code:    errors.CodeOf(err),
			Message: err.Error(),
		},
	}
	var domainErr *errors.Error
	if errors.As(err, &domainErr) {
		entry.Error.Details = domainErr.Details
	}

	if !p.text {
		return json.NewEncoder(p.w).Encode(entry)
	}

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	if source != "" {
		fmt.Fprintf(tw, "source\t%s\n", source)
	}
	fmt.Fprintf(tw, "error\t%s\n", entry.Error.Code)
	fmt.Fprintf(tw, "\t%s\n", entry.Error.Message)
	if details, ok := entry.Error.Details.(map[string]string); ok {
		for _, field := range sortedKeys(details) {
			fmt.Fprintf(tw, "\t%s: %s\n", field, details[field])
		}
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.w)
	return err
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
