package deeplink

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func strPtr(s string) *string { return &s }

func TestIsDeeplink(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"cw-reports://budgets", true},
		{"cw-reports://oauth#access_token=abc", true},
		{"cw-reports:opaque", true},
		{"CW-Reports://budgets", false},
		{"CW-REPORTS://budgets", false},
		{"https://app.ynab.com", false},
		{"cw-report://budgets", false},
		{"/relative/path", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			l, err := Parse(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.IsDeeplink())
			assert.Equal(t, tt.want, IsDeeplink(tt.url))
		})
	}
}

func TestRawSchemeKeepsCase(t *testing.T) {
	l := MustParse("CW-Reports://budgets")
	assert.Equal(t, "CW-Reports", l.RawScheme())
	assert.Equal(t, "cw-reports", l.URL().Scheme)
}

func TestQueryItems(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		want  []QueryItem
		found bool
	}{
		{
			name:  "duplicates and order preserved",
			url:   "scheme://host?a=1&b=2&a=3",
			want:  []QueryItem{{"a", strPtr("1")}, {"b", strPtr("2")}, {"a", strPtr("3")}},
			found: true,
		},
		{
			name:  "no query",
			url:   "scheme://host",
			found: false,
		},
		{
			name:  "empty query",
			url:   "scheme://host?",
			want:  []QueryItem{},
			found: true,
		},
		{
			name:  "percent decoding without plus",
			url:   "scheme://host?q=a%20b+c&k%3D=v%26",
			want:  []QueryItem{{"q", strPtr("a b+c")}, {"k=", strPtr("v&")}},
			found: true,
		},
		{
			name:  "item without value",
			url:   "scheme://host?flag&x=",
			want:  []QueryItem{{"flag", nil}, {"x", strPtr("")}},
			found: true,
		},
		{
			name:  "fragment is not part of the query",
			url:   "scheme://host?a=1#b=2",
			want:  []QueryItem{{"a", strPtr("1")}},
			found: true,
		},
		{
			name:  "question mark only inside fragment",
			url:   "scheme://host#a?b=1",
			found: false,
		},
		{
			name:  "invalid escape kept raw",
			url:   "scheme://host?a=%zz",
			want:  []QueryItem{{"a", strPtr("%zz")}},
			found: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, ok := MustParse(tt.url).QueryItems()
			assert.Equal(t, tt.found, ok)
			if !tt.found {
				assert.Nil(t, items)
				return
			}
			require.NotNil(t, items)
			assert.Equal(t, tt.want, items)
		})
	}
}

func TestFragmentItems(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		want  map[string]string
		found bool
	}{
		{
			name:  "last key wins and bare tokens dropped",
			url:   "scheme://host#x=1&y=2&y=3&z",
			want:  map[string]string{"x": "1", "y": "3"},
			found: true,
		},
		{
			name:  "empty fragment",
			url:   "scheme://host#",
			want:  map[string]string{},
			found: true,
		},
		{
			name:  "no fragment",
			url:   "scheme://host",
			found: false,
		},
		{
			name:  "only first separator is significant",
			url:   "scheme://host#token=a=b==&empty=",
			want:  map[string]string{"token": "a=b==", "empty": ""},
			found: true,
		},
		{
			name:  "no percent decoding",
			url:   "scheme://host#msg=a%20b+c",
			want:  map[string]string{"msg": "a%20b+c"},
			found: true,
		},
		{
			name:  "empty parts skipped",
			url:   "scheme://host#&&a=1&",
			want:  map[string]string{"a": "1"},
			found: true,
		},
		{
			name:  "query does not leak into fragment",
			url:   "scheme://host?q=1#f=2",
			want:  map[string]string{"f": "2"},
			found: true,
		},
		{
			name:  "empty key",
			url:   "scheme://host#=v",
			want:  map[string]string{"": "v"},
			found: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, ok := MustParse(tt.url).FragmentItems()
			assert.Equal(t, tt.found, ok)
			if !tt.found {
				assert.Nil(t, items)
				return
			}
			require.NotNil(t, items)
			assert.Equal(t, tt.want, items)
		})
	}
}

func TestOperationsAreRepeatable(t *testing.T) {
	l := MustParse("cw-reports://budgets/x?a=1&a=2#t=1&t=2")

	q1, ok1 := l.QueryItems()
	q2, ok2 := l.QueryItems()
	assert.Equal(t, q1, q2)
	assert.Equal(t, ok1, ok2)

	f1, _ := l.FragmentItems()
	f2, _ := l.FragmentItems()
	assert.Equal(t, f1, f2)

	assert.Equal(t, l.IsDeeplink(), l.IsDeeplink())
	assert.Equal(t, "cw-reports://budgets/x?a=1&a=2#t=1&t=2", l.String())
}

func TestURLReturnsCopy(t *testing.T) {
	l := MustParse("cw-reports://budgets?a=1")
	u := l.URL()
	u.RawQuery = "changed"

	items, _ := l.QueryItems()
	assert.Equal(t, []QueryItem{{"a", strPtr("1")}}, items)
	assert.Equal(t, "a=1", l.URL().RawQuery)
}

func TestMalformedURL(t *testing.T) {
	const bad = "cw-reports://host%zz"

	_, err := Parse(bad)
	require.Error(t, err)

	assert.False(t, IsDeeplink(bad))
	q, ok := QueryItems(bad)
	assert.False(t, ok)
	assert.Nil(t, q)
	f, ok := FragmentItems(bad)
	assert.False(t, ok)
	assert.Nil(t, f)
}

func TestQueryItemVal(t *testing.T) {
	v, ok := QueryItem{Name: "a"}.Val()
	assert.False(t, ok)
	assert.Empty(t, v)

	v, ok = QueryItem{Name: "a", Value: strPtr("1")}.Val()
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestConcurrentUse(t *testing.T) {
	l := MustParse("cw-reports://budgets/default?a=1&b=%20x&a=2#k=v&k=w&bare&e=")

	wantDeeplink := l.IsDeeplink()
	wantQuery, wantHasQuery := l.QueryItems()
	wantFragment, wantHasFragment := l.FragmentItems()

	var g errgroup.Group
	for i := 0; i < 32; i++ {
		g.Go(func() error {
			for j := 0; j < 100; j++ {
				if l.IsDeeplink() != wantDeeplink {
					return fmt.Errorf("IsDeeplink changed")
				}
				q, ok := l.QueryItems()
				if ok != wantHasQuery || !assert.ObjectsAreEqual(wantQuery, q) {
					return fmt.Errorf("QueryItems changed: %v", q)
				}
				f, ok := l.FragmentItems()
				if ok != wantHasFragment || !assert.ObjectsAreEqual(wantFragment, f) {
					return fmt.Errorf("FragmentItems changed: %v", f)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.True(t, wantDeeplink)
	assert.Equal(t, []QueryItem{{"a", strPtr("1")}, {"b", strPtr(" x")}, {"a", strPtr("2")}}, wantQuery)
	assert.Equal(t, map[string]string{"k": "w", "e": ""}, wantFragment)
}

func TestZeroLink(t *testing.T) {
	var l Link

	assert.False(t, l.IsDeeplink())
	assert.Empty(t, l.RawScheme())
	assert.Equal(t, &url.URL{}, l.URL())

	q, ok := l.QueryItems()
	assert.False(t, ok)
	assert.Nil(t, q)
	f, ok := l.FragmentItems()
	assert.False(t, ok)
	assert.Nil(t, f)
}
