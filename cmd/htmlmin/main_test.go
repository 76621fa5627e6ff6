package main

import (
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/tdewolff/test"
)

func TestCreateTasks(t *testing.T) {
	fsys := fstest.MapFS{
		"a.html":     {},
		"dir/b.html": {},
	}

	tests := []struct {
		input, output string
		tasks         map[string]string
	}{
		// root file
		{"a.html", "", map[string]string{"a.html": ""}},
		{"a.html", ".", map[string]string{"a.html": "a.html"}},
		{"a.html", "./", map[string]string{"a.html": "a.html"}},
		{"a.html", "out", map[string]string{"a.html": "out"}},
		{"a.html", "out/", map[string]string{"a.html": "out/a.html"}},

		// nested file
		{"dir/b.html", "", map[string]string{"dir/b.html": ""}},
		{"dir/b.html", ".", map[string]string{"dir/b.html": "b.html"}},
		{"dir/b.html", "./", map[string]string{"dir/b.html": "b.html"}},
		{"dir/b.html", "out", map[string]string{"dir/b.html": "out"}},
		{"dir/b.html", "out/", map[string]string{"dir/b.html": "out/b.html"}},

		// directory
		{"dir", "", map[string]string{"dir/b.html": ""}},
		{"dir", ".", map[string]string{"dir/b.html": "dir/b.html"}},
		{"dir", "./", map[string]string{"dir/b.html": "dir/b.html"}},
		{"dir", "out/", map[string]string{"dir/b.html": "out/dir/b.html"}},
		{"dir/", "out/", map[string]string{"dir/b.html": "out/b.html"}},
	}

	recursive = true
	for _, tt := range tests {
		t.Run(tt.input+" => "+tt.output, func(t *testing.T) {
			tasks, _, err := createTasks(fsys, []string{tt.input}, tt.output)
			test.Error(t, err)
			if len(tasks) != len(tt.tasks) {
				test.Fail(t, fmt.Sprintf("missing %v", tt.tasks))
			}
			for _, task := range tasks {
				if dst, ok := tt.tasks[task.src]; !ok || dst != task.dst {
					test.Fail(t, fmt.Sprintf("unexpected %s => %s", task.src, task.dst))
				}
			}
		})
	}
}

func TestFileMatches(t *testing.T) {
	test.That(t, fileMatches("index.html"))
	test.That(t, fileMatches("a/b/index.htm"))
	test.That(t, fileMatches("style.css"))
	test.That(t, fileMatches("app.mjs"))
	test.That(t, !fileMatches("readme.md"))
	test.That(t, !fileMatches("noext"))
}
