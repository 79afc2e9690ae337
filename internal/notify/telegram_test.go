package notify

import "testing"

func TestChatIDForUser(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"123456789", 123456789},
		{"-100200300", -100200300},
		{"alice", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := ChatIDForUser(tc.in); got != tc.want {
			t.Fatalf("ChatIDForUser(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
