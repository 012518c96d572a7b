package tmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		data    any
		want    string
		wantErr bool
	}{
		{
			name: "simple substitution",
			tmpl: "https://example.com/?zip={{ .PostalCode }}",
			data: map[string]string{"PostalCode": "90210"},
			want: "https://example.com/?zip=90210",
		},
		{
			name: "struct data",
			tmpl: "{{ .Query }}-{{ .Radius }}",
			data: struct {
				Query  string
				Radius int
			}{Query: "bike", Radius: 25},
			want: "bike-25",
		},
		{
			name: "uri function escapes spaces as %20",
			tmpl: "q={{ .Query | uri }}",
			data: map[string]string{"Query": "lawn mower"},
			want: "q=lawn%20mower",
		},
		{
			name: "uri function escapes reserved characters",
			tmpl: "q={{ .Query | uri }}",
			data: map[string]string{"Query": "tools & parts"},
			want: "q=tools%20%26%20parts",
		},
		{
			name: "lower function",
			tmpl: "{{ .Name | lower }}",
			data: map[string]string{"Name": "KiJiJi"},
			want: "kijiji",
		},
		{
			name: "no variables",
			tmpl: "static string",
			data: nil,
			want: "static string",
		},
		{
			name:    "missing key errors",
			tmpl:    "{{ .Missing }}",
			data:    map[string]string{"Query": "test"},
			wantErr: true,
		},
		{
			name:    "invalid template syntax",
			tmpl:    "{{ .Query }",
			data:    map[string]string{"Query": "test"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tmpl, tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_ExecuteIsRepeatable(t *testing.T) {
	tpl, err := Parse("url", "https://example.com/?q={{ .Query | uri }}")
	require.NoError(t, err)

	first, err := tpl.Execute(map[string]string{"Query": "a b"})
	require.NoError(t, err)
	second, err := tpl.Execute(map[string]string{"Query": "a b"})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/?q=a%20b", first)
	assert.Equal(t, first, second)
}
