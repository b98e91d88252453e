package domain

import "testing"

func TestPageQuerySanitize(t *testing.T) {
	cases := []struct {
		name       string
		in         PageQuery
		wantLimit  int64
		wantNumber int64
	}{
		{"zero limit", PageQuery{Limit: 0, Number: 1}, 100, 1},
		{"negative limit", PageQuery{Limit: -5, Number: 3}, 100, 3},
		{"oversized limit", PageQuery{Limit: 99999, Number: 2}, 100, 2},
		{"limit at ceiling", PageQuery{Limit: 100, Number: 1}, 100, 1},
		{"zero page number", PageQuery{Limit: 10, Number: 0}, 10, 1},
		{"negative page number", PageQuery{Limit: 10, Number: -2}, 10, 1},
		{"already sane", PageQuery{Limit: 25, Number: 4}, 25, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.Sanitize()
			if tc.in.Limit != tc.wantLimit {
				t.Errorf("limit = %d, want %d", tc.in.Limit, tc.wantLimit)
			}
			if tc.in.Number != tc.wantNumber {
				t.Errorf("number = %d, want %d", tc.in.Number, tc.wantNumber)
			}
			if tc.in.Limit < 1 || tc.in.Limit > MaxPageLimit {
				t.Errorf("sanitized limit %d outside [1, %d]", tc.in.Limit, MaxPageLimit)
			}
		})
	}
}

func TestPageQueryOffset(t *testing.T) {
	p := PageQuery{Limit: 25, Number: 3}
	if got := p.Offset(); got != 50 {
		t.Errorf("offset = %d, want 50", got)
	}
	p = PageQuery{Limit: 100, Number: 1}
	if got := p.Offset(); got != 0 {
		t.Errorf("offset = %d, want 0", got)
	}
}

func TestNewPageEnvelopePages(t *testing.T) {
	cases := []struct {
		total int64
		limit int64
		pages int64
	}{
		{0, 100, 0},
		{1, 100, 1},
		{100, 100, 1},
		{101, 100, 2},
		{250, 100, 3},
		{9, 3, 3},
		{10, 3, 4},
	}
	for _, tc := range cases {
		env := NewPageEnvelope([]Bird{}, tc.total, PageQuery{Limit: tc.limit, Number: 1})
		if env.Pages != tc.pages {
			t.Errorf("total=%d limit=%d: pages = %d, want %d", tc.total, tc.limit, env.Pages, tc.pages)
		}
	}
}

func TestNewPageEnvelopeNilDocuments(t *testing.T) {
	env := NewPageEnvelope[Bird](nil, 0, PageQuery{Limit: 100, Number: 1})
	if env.Documents == nil {
		t.Fatal("documents must serialize as an empty array, not null")
	}
}

func TestSessionObjectSentinels(t *testing.T) {
	invalid := InvalidSession()
	if invalid.Valid() {
		t.Fatal("sentinel session must not be valid")
	}
	if invalid.MandantUUID() != NotAvailable || invalid.UserUUID() != NotAvailable {
		t.Errorf("invalid session must carry %q identities", NotAvailable)
	}

	for _, s := range []*Session{
		nil,
		{SessionKey: "k", UserUUID: "u"},                  // missing mandant
		{SessionKey: "k", MandantUUID: "m"},               // missing user
		{UserUUID: "u", MandantUUID: "m"},                 // missing key
		{SessionKey: "", UserUUID: "", MandantUUID: ""},   // all empty
	} {
		if NewSessionObject(s).Valid() {
			t.Errorf("session %+v must be invalid", s)
		}
	}

	valid := NewSessionObject(&Session{SessionKey: "k", UserUUID: "u", MandantUUID: "m", Username: "fg_10"})
	if !valid.Valid() {
		t.Fatal("complete session row must be valid")
	}
	if valid.MandantUUID() != "m" || valid.UserUUID() != "u" || valid.SessionKey() != "k" {
		t.Error("valid session must expose its identity fields")
	}
}
