package eventmatch

import "testing"

func TestMatchesExact(t *testing.T) {
	if !Matches("foo.bar", "foo.bar") {
		t.Fatal("exact match must succeed")
	}
}

func TestMatchesWildcard(t *testing.T) {
	if !Matches("*", "anything.at.all") {
		t.Fatal("* must match any event name")
	}
	if !Matches("*", "") {
		t.Fatal("* must match even the empty event name")
	}
}

func TestMatchesDottedPrefix(t *testing.T) {
	if !Matches("foo.bar", "foo.bar.baz") {
		t.Fatal("foo.bar must match descendant foo.bar.baz")
	}
	if !Matches("foo", "foo.bar") {
		t.Fatal("foo must match descendant foo.bar")
	}
}

func TestMatchesRejectsNonDescendantPrefix(t *testing.T) {
	if Matches("foo.bar", "foo.barbaz") {
		t.Fatal("foo.bar must not match foo.barbaz: barbaz is not a dotted child of bar")
	}
}

func TestMatchesRejectsReverseContainment(t *testing.T) {
	if Matches("foo.bar", "foo") {
		t.Fatal("a declared event must not match a shorter event name")
	}
}

func TestMatchesRejectsUnrelatedNames(t *testing.T) {
	if Matches("foo.bar", "baz.qux") {
		t.Fatal("unrelated event names must not match")
	}
}

func TestMatchesEmptyDeclaredOnlyMatchesEmptyEvent(t *testing.T) {
	if !Matches("", "") {
		t.Fatal("empty declared event must match an empty event name")
	}
	if Matches("", "foo") {
		t.Fatal("empty declared event must not match a non-empty one")
	}
}
