// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// maxSettingsFileSize caps the settings file read from disk.
const maxSettingsFileSize = 1 << 20

// decodeSettingsCUE unifies a settings file with #Config from the embedded
// schema and returns the fields it sets. Unset optional fields are absent
// from the map, so defaults and environment overrides still apply to them.
func decodeSettingsCUE(filename string, data []byte) (map[string]any, error) {
	if len(data) > maxSettingsFileSize {
		return nil, fmt.Errorf("file is %d bytes, the limit is %d", len(data), maxSettingsFileSize)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileBytes(configSchema).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("internal error: settings schema: %w", err)
	}

	user := ctx.CompileBytes(data, cue.Filename(filename))
	if err := user.Err(); err != nil {
		return nil, fieldErrors(err)
	}
	unified := schema.Unify(user)
	if err := unified.Validate(); err != nil {
		return nil, fieldErrors(err)
	}

	var settings map[string]any
	if err := unified.Decode(&settings); err != nil {
		return nil, fieldErrors(err)
	}
	return settings, nil
}

// fieldErrors flattens a CUE error list to one "<field>: <message>" entry per
// error, for example "on_step_failure: 2 errors in empty disjunction". Syntax
// errors have no field and are prefixed with their position instead.
func fieldErrors(err error) error {
	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return err
	}
	msgs := make([]string, 0, len(list))
	for _, e := range list {
		msg := e.Error()
		if field := strings.Join(cueerrors.Path(e), "."); field != "" {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, field), ":"))
			msg = field + ": " + msg
		} else if pos := e.Position(); pos.IsValid() {
			msg = pos.String() + ": " + msg
		}
		msgs = append(msgs, msg)
	}
	return errors.New(strings.Join(msgs, "; "))
}
