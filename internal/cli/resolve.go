package cli

import (
	"context"
	"fmt"
	"strings"
)

// matchID resolves input against candidate IDs and names:
//  1. exact ID
//  2. case-insensitive name
//  3. unique ID prefix
func matchID(kind, input string, ids, names []string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%s ID is required", kind)
	}
	for _, id := range ids {
		if id == input {
			return id, nil
		}
	}
	for i, name := range names {
		if name != "" && strings.EqualFold(name, input) {
			return ids[i], nil
		}
	}

	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

func resolveShiftID(ctx context.Context, app *App, input string) (string, error) {
	shifts, err := app.Shifts.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(shifts))
	names := make([]string, len(shifts))
	for i, s := range shifts {
		ids[i], names[i] = s.ID, s.Name
	}
	return matchID("shift", input, ids, names)
}

// resolveMachineID accepts an ID, a name or an ID prefix.
func resolveMachineID(ctx context.Context, app *App, input string) (string, error) {
	if m, err := app.Machines.Resolve(ctx, input); err == nil {
		return m.ID, nil
	}
	machines, err := app.Machines.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(machines))
	names := make([]string, len(machines))
	for i, m := range machines {
		ids[i], names[i] = m.ID, m.Name
	}
	return matchID("machine", input, ids, names)
}

func resolveRequestID(ctx context.Context, app *App, input string) (string, error) {
	reqs, err := app.Requests.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ID
	}
	return matchID("request", input, ids, make([]string, len(reqs)))
}

func machineNames(ctx context.Context, app *App) (map[string]string, error) {
	machines, err := app.Machines.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(machines))
	for _, m := range machines {
		out[m.ID] = m.Name
	}
	return out, nil
}
