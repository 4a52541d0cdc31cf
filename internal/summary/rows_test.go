package summary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRows(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Rows
	}{
		{
			name:  "blank line becomes empty row",
			input: "h1,h2\n\nA,1.0,2.0\nB,3.0,4.0\n",
			want:  Rows{{"h1", "h2"}, {}, {"A", "1.0", "2.0"}, {"B", "3.0", "4.0"}},
		},
		{
			name:  "crlf line endings",
			input: "h1\r\n\r\nA,1\r\n",
			want:  Rows{{"h1"}, {}, {"A", "1"}},
		},
		{
			name:  "variable field counts",
			input: "a\nb,c,d\n\ne,f\n",
			want:  Rows{{"a"}, {"b", "c", "d"}, {}, {"e", "f"}},
		},
		{
			name:  "whitespace line is not empty",
			input: "a\n \nb\n",
			want:  Rows{{"a"}, {" "}, {"b"}},
		},
		{
			name:  "quoted empty field is one cell",
			input: "\"\"\n\n",
			want:  Rows{{""}, {}},
		},
		{
			name:  "quoted field spanning lines",
			input: "\"Team\n\nRed\",1\n\nA,2\n",
			want:  Rows{{"Team\n\nRed", "1"}, {}, {"A", "2"}},
		},
		{
			name:  "quoted comma",
			input: "\"Smith, J\",1,2\n",
			want:  Rows{{"Smith, J", "1", "2"}},
		},
		{
			name:  "no trailing newline",
			input: "a,b\n\nc,1",
			want:  Rows{{"a", "b"}, {}, {"c", "1"}},
		},
		{
			name:  "bare quote inside unquoted cell is literal",
			input: "Vessel,Note\nA,5\" gun\nB,x\n\nA,1,2\nB,3,4\n",
			want: Rows{
				{"Vessel", "Note"},
				{"A", "5\" gun"},
				{"B", "x"},
				{},
				{"A", "1", "2"},
				{"B", "3", "4"},
			},
		},
		{
			name:  "doubled quote inside quoted cell",
			input: "\"say \"\"hi\"\"\",1\n",
			want:  Rows{{"say \"hi\"", "1"}},
		},
		{
			name:  "text after closing quote joins the cell",
			input: "\"a\"b,c\n",
			want:  Rows{{"ab", "c"}},
		},
		{
			name:  "trailing comma adds an empty cell",
			input: "a,\n",
			want:  Rows{{"a", ""}},
		},
		{
			name:  "consecutive blank lines",
			input: "a\n\n\nb\n",
			want:  Rows{{"a"}, {}, {}, {"b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ReadRows(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows)
		})
	}
}

func TestReadRowsEmptyInput(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
