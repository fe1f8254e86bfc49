package headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailrisk/phish-scorer/internal/core"
)

func TestExtractDomain(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		address  string
		expected string
	}{
		{"plain address", "user@example.com", "example.com"},
		{"subdomain", "test@sub.domain.com", "sub.domain.com"},
		{"bare domain passes through", "bare-domain.com", "bare-domain.com"},
		{"upper case is normalized", "Alice@Example.COM", "example.com"},
		{"second at sign is ignored", "a@b.com@evil.com", "b.com"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parser.ExtractDomain(tt.address))
		})
	}
}

func TestParse_ReplyToAndReturnPath(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name               string
		headers            string
		expectedReplyTo    string
		expectedReturnPath string
	}{
		{
			name:            "angle bracketed reply-to",
			headers:         "From: a@example.com\nReply-To: <phisher@different.com>\n",
			expectedReplyTo: "phisher@different.com",
		},
		{
			name:            "bare reply-to",
			headers:         "Reply-To: phisher@different.com\n",
			expectedReplyTo: "phisher@different.com",
		},
		{
			name:               "return path",
			headers:            "Return-Path: <bounce@bulk-mailer.net>\nFrom: a@example.com\n",
			expectedReturnPath: "bounce@bulk-mailer.net",
		},
		{
			name:    "absent headers yield empty facts",
			headers: "From: a@example.com\nSubject: hi\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := parser.Parse(tt.headers)
			assert.Equal(t, tt.expectedReplyTo, facts.ReplyTo)
			assert.Equal(t, tt.expectedReturnPath, facts.ReturnPath)
		})
	}
}

func TestParse_DKIMSignature(t *testing.T) {
	parser := NewParser()

	t.Run("signer domain is captured", func(t *testing.T) {
		headers := "DKIM-Signature: v=1; a=rsa-sha256; c=relaxed/relaxed;\n" +
			" d=example.com; s=mail;\n" +
			" h=from:to:subject;\n"
		facts := parser.Parse(headers)
		assert.True(t, facts.DKIMPresent)
		assert.Equal(t, "example.com", facts.DKIMDomain)
	})

	t.Run("no signature", func(t *testing.T) {
		facts := parser.Parse("From: a@example.com\n")
		assert.False(t, facts.DKIMPresent)
		assert.Empty(t, facts.DKIMDomain)
	})
}

func TestParse_AuthenticationResults(t *testing.T) {
	parser := NewParser()

	headers := "Authentication-Results: mx.example.com;\n" +
		"\tdkim=pass header.d=example.com;\n" +
		"\tspf=fail smtp.mailfrom=example.com;\n" +
		"\tdmarc=none header.from=example.com\n" +
		"From: a@example.com\n"

	facts := parser.Parse(headers)
	require.NotNil(t, facts.AuthResults)
	assert.Equal(t, core.VerdictPass, facts.AuthResults["dkim"])
	assert.Equal(t, core.VerdictFail, facts.AuthResults["spf"])
	assert.Equal(t, core.VerdictNone, facts.AuthResults["dmarc"])
}

func TestParse_AuthenticationResultsStopsAtNextHeader(t *testing.T) {
	parser := NewParser()

	// The spf verdict below belongs to a different header and must not be
	// attributed to Authentication-Results.
	headers := "Authentication-Results: mx.example.com; dkim=pass\n" +
		"X-Custom: spf=fail\n"

	facts := parser.Parse(headers)
	assert.Equal(t, core.VerdictPass, facts.AuthResults["dkim"])
	_, found := facts.AuthResults["spf"]
	assert.False(t, found)
}

func TestExtractSubject(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		headers  string
		expected string
	}{
		{
			name:     "simple subject",
			headers:  "From: a@example.com\nSubject: Invoice attached\nTo: b@example.com\n",
			expected: "Invoice attached",
		},
		{
			name:     "folded subject",
			headers:  "Subject: Urgent action\n required on your\n\taccount\nTo: b@example.com\n",
			expected: "Urgent action required on your account",
		},
		{
			name:     "case insensitive header name",
			headers:  "subject: lower case\n",
			expected: "lower case",
		},
		{
			name:     "missing subject",
			headers:  "From: a@example.com\n",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parser.ExtractSubject(tt.headers))
		})
	}
}
