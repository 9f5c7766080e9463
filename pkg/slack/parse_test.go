package slack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportCommand(t *testing.T) {
	t.Run("parses a quoted initiative with note", func(t *testing.T) {
		parsed, err := ParseReportCommand(`"AI Experimentation" 1d Tested prompt engineering`)

		require.NoError(t, err)
		assert.Equal(t, "AI Experimentation", parsed.InitiativeName)
		assert.Equal(t, 1.0, parsed.PersonDays)
		assert.Equal(t, "Tested prompt engineering", parsed.Note)
	})

	t.Run("parses an unquoted single-word initiative", func(t *testing.T) {
		parsed, err := ParseReportCommand("Evals 0.5d")

		require.NoError(t, err)
		assert.Equal(t, "Evals", parsed.InitiativeName)
		assert.Equal(t, 0.5, parsed.PersonDays)
		assert.Empty(t, parsed.Note)
	})

	t.Run("accepts day format variants", func(t *testing.T) {
		for text, expected := range map[string]float64{
			`"X" 2d`:       2,
			`"X" 2.5d`:     2.5,
			`"X" 0,5d`:     0.5,
			`"X" 1 day`:    1,
			`"X" 3 days`:   3,
			`"X" 1.5 Days`: 1.5,
		} {
			parsed, err := ParseReportCommand(text)
			require.NoError(t, err, text)
			assert.Equal(t, expected, parsed.PersonDays, text)
		}
	})

	t.Run("returns usage text for an empty command", func(t *testing.T) {
		_, err := ParseReportCommand("   ")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Usage: /report")
	})

	t.Run("rejects an unterminated quote", func(t *testing.T) {
		_, err := ParseReportCommand(`"AI Experimentation 1d`)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "closing quote")
	})

	t.Run("rejects empty quoted names", func(t *testing.T) {
		_, err := ParseReportCommand(`"" 1d`)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("rejects a command without a duration", func(t *testing.T) {
		_, err := ParseReportCommand(`"AI Experimentation" worked on stuff`)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "specify time in days")
	})

	t.Run("rejects out-of-range person-days", func(t *testing.T) {
		for _, text := range []string{`"X" 0d`, `"X" 5.5d`, `"X" 100d`} {
			_, err := ParseReportCommand(text)
			require.Error(t, err, text)
			assert.Contains(t, err.Error(), "between 0 and 5", text)
		}
	})

	t.Run("keeps text after the duration as the note", func(t *testing.T) {
		parsed, err := ParseReportCommand(`"AI Experimentation" 0.5d tried the new model on 3 tickets`)

		require.NoError(t, err)
		assert.Equal(t, "tried the new model on 3 tickets", parsed.Note)
	})
}
