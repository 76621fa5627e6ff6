package main

import (
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/matryer/try"
	"github.com/tdewolff/argp"

	"github.com/WilliamThogersen/htmlmin"
)

// Version is the current htmlmin version.
var Version = "built from source"

// extMap maps filename extensions to the minifier kind that handles them.
var extMap = map[string]string{
	"htm":  "html",
	"html": "html",
	"css":  "css",
	"js":   "js",
	"mjs":  "js",
}

var (
	opts               htmlmin.Options
	maxSize            int
	recursive          bool
	hidden             bool
	quiet              bool
	verbose            int
	watch              bool
	preserve           []string
	preserveMode       bool
	preserveOwnership  bool
	preserveTimestamps bool
)

// Task is a single input to output minification.
type Task struct {
	root string
	src  string
	dst  string
}

// NewTask returns a new Task. A dst ending in a path separator (or equal to
// ".") is a directory destination and the src path relative to root is
// appended to it.
func NewTask(root, input, output string) (Task, error) {
	if len(output) != 0 && (output == "." || output[len(output)-1] == os.PathSeparator) {
		rel, err := filepath.Rel(root, input)
		if err != nil {
			return Task{}, err
		}
		output = filepath.Join(output, rel)
	}
	return Task{root, input, output}, nil
}

// Loggers.
var (
	Error   *log.Logger
	Warning *log.Logger
	Info    *log.Logger
)

func main() {
	// os.Exit doesn't execute pending defer calls, this is fixed by encapsulating run()
	os.Exit(run())
}

func run() int {
	var inputs []string
	var output string
	var version bool
	preset := "default"

	var keepComments bool
	var keepWhitespace bool
	var keepOptionalTags bool
	var keepQuotes bool
	var keepBooleanAttrs bool
	var keepDefaultAttrs bool
	var keepEmptyAttrs bool
	var keepConditionalComments bool
	var noJS bool
	var noCSS bool

	preserve = []string{"mode", "timestamps"}
	if supportsGetOwnership {
		preserve = []string{"mode", "ownership", "timestamps"}
	}

	f := argp.New("htmlmin")
	f.AddRest(&inputs, "inputs", "Input files or directories, leave blank to use stdin")
	f.AddOpt(&output, "o", "output", "Output file or directory, leave blank to use stdout")
	f.AddOpt(&preset, "", "preset", "Option preset (default, conservative, minimal)")
	f.AddOpt(&keepComments, "", "keep-comments", "Preserve all comments")
	f.AddOpt(&keepConditionalComments, "", "keep-conditional-comments", "Preserve downlevel conditional comments")
	f.AddOpt(&keepWhitespace, "", "keep-whitespace", "Preserve whitespace between elements")
	f.AddOpt(&keepOptionalTags, "", "keep-optional-tags", "Preserve optional start and end tags")
	f.AddOpt(&keepQuotes, "", "keep-quotes", "Preserve quotes around attribute values")
	f.AddOpt(&keepBooleanAttrs, "", "keep-boolean-attrvals", "Preserve boolean attribute values")
	f.AddOpt(&keepDefaultAttrs, "", "keep-default-attrvals", "Preserve attributes with default values")
	f.AddOpt(&keepEmptyAttrs, "", "keep-empty-attrs", "Preserve removable empty attributes")
	f.AddOpt(&noJS, "", "no-js", "Leave embedded JavaScript untouched")
	f.AddOpt(&noCSS, "", "no-css", "Leave embedded CSS untouched")
	f.AddOpt(&maxSize, "", "max-size", "Maximum input size in bytes, 0 is unlimited")
	f.AddOpt(&recursive, "r", "recursive", "Recursively minify directories")
	f.AddOpt(&hidden, "a", "all", "Minify all files, including hidden files and files in hidden directories")
	f.AddOpt(&quiet, "q", "quiet", "Quiet mode to suppress all output")
	f.AddOpt(argp.Count{I: &verbose}, "v", "verbose", "Verbose mode, set twice for more verbosity")
	f.AddOpt(&watch, "w", "watch", "Watch files and minify upon changes")
	f.AddOpt(&preserve, "p", "preserve", "Preserve options (mode, ownership, timestamps, all)")
	f.AddOpt(&version, "", "version", "Version")
	f.Parse()

	if version {
		if !quiet {
			fmt.Printf("htmlmin %s (library %s)\n", Version, htmlmin.Version)
		}
		return 0
	}

	Error = log.New(io.Discard, "", 0)
	Warning = log.New(io.Discard, "", 0)
	Info = log.New(io.Discard, "", 0)
	if !quiet {
		Error = log.New(os.Stderr, "ERROR: ", 0)
		if 0 < verbose {
			Warning = log.New(os.Stderr, "WARNING: ", 0)
		}
		if 1 < verbose {
			Info = log.New(os.Stderr, "INFO: ", 0)
		}
	}

	var ok bool
	if opts, ok = htmlmin.Preset(preset); !ok {
		Error.Println("unknown preset", preset)
		return 1
	}
	if keepComments {
		opts.RemoveComments = false
	}
	if keepConditionalComments {
		opts.PreserveConditionalComments = true
	}
	if keepWhitespace {
		opts.CollapseWhitespace = false
	}
	if keepOptionalTags {
		opts.RemoveOptionalTags = false
	}
	if keepQuotes {
		opts.RemoveAttributeQuotes = false
	}
	if keepBooleanAttrs {
		opts.CollapseBooleanAttributes = false
	}
	if keepDefaultAttrs {
		opts.RemoveDefaultAttributes = false
	}
	if keepEmptyAttrs {
		opts.RemoveEmptyAttributes = false
	}
	if noJS {
		opts.MinifyJS = false
	}
	if noCSS {
		opts.MinifyCSS = false
	}

	if len(inputs) == 1 && inputs[0] == "-" {
		inputs = inputs[:0] // stdin
	} else if output == "-" {
		output = "" // stdout
	}
	useStdin := len(inputs) == 0

	if (useStdin || output == "") && watch {
		Error.Println("--watch doesn't work with stdin and stdout, specify input and output")
		return 1
	} else if useStdin && recursive {
		Error.Println("--recursive doesn't work with stdin, specify input")
		return 1
	} else if output == "" && recursive {
		Error.Println("--recursive doesn't work with stdout, specify output")
		return 1
	}
	if f.IsSet("preserve") && (useStdin || output == "") {
		Error.Println("--preserve cannot be used together with stdin or stdout")
		return 1
	}
	for _, option := range preserve {
		switch option {
		case "all":
			preserveMode = true
			preserveOwnership = true
			preserveTimestamps = true
		case "mode":
			preserveMode = true
		case "ownership":
			preserveOwnership = true
		case "timestamps":
			preserveTimestamps = true
		}
	}
	if preserveOwnership && !supportsGetOwnership {
		Warning.Println("preserve ownership not supported on platform")
	}

	////////////////

	for i, input := range inputs {
		if input == "-" {
			Error.Println("cannot mix files and stdin as input")
			return 1
		}
		inputs[i] = filepath.Clean(input)
		if input[len(input)-1] == os.PathSeparator {
			inputs[i] += string(os.PathSeparator)
		}
	}

	// set output file or directory, empty means stdout
	dirDst := false
	if output != "" {
		dirDst = IsDir(output)
		if !dirDst {
			if 1 < len(inputs) {
				Error.Printf("stat %v: no such file or directory\n", output)
				return 1
			} else if len(inputs) == 1 {
				if info, err := os.Lstat(inputs[0]); err == nil && info.Mode().IsDir() {
					dirDst = true
				}
			}
		}
		output = filepath.Clean(output)
		if dirDst {
			output += string(os.PathSeparator)
		}
	} else if 1 < len(inputs) {
		Error.Println("multiple input files require an output directory")
		return 1
	}
	if output == "" {
		Info.Println("minify to stdout")
	} else if !dirDst {
		Info.Println("minify to output file", output)
	} else {
		Info.Println("minify to output directory", output)
	}
	if useStdin {
		Info.Println("minify from stdin")
	}

	var err error
	var tasks []Task
	var roots []string
	if useStdin {
		tasks = append(tasks, Task{})
		tasks[0].dst = output
		roots = append(roots, "")
	} else {
		fsys := NewFS()
		tasks, roots, err = createTasks(fsys, inputs, output)
		if err != nil {
			Error.Println(err)
			return 1
		}
	}

	// make output directory
	if dirDst {
		if err := os.MkdirAll(output, 0777); err != nil {
			Error.Println(err)
			return 1
		}
	}

	////////////////

	fails := 0
	start := time.Now()
	if !watch && (len(tasks) == 1 || 0 < verbose) {
		for _, task := range tasks {
			if ok := minify(task); !ok {
				fails++
			}
		}
	} else {
		numWorkers := runtime.NumCPU()
		if 0 < verbose {
			numWorkers = 1
		} else if numWorkers < 4 {
			numWorkers = 4
		}

		chanTasks := make(chan Task, 20)
		chanFails := make(chan int, numWorkers)
		for n := 0; n < numWorkers; n++ {
			go minifyWorker(chanTasks, chanFails)
		}

		if !watch {
			for _, task := range tasks {
				chanTasks <- task
			}
		} else {
			watcher, err := NewWatcher(recursive)
			if err != nil {
				Error.Println(err)
				return 1
			}
			defer watcher.Close()
			changes := watcher.Run()

			for _, filename := range inputs {
				watcher.AddPath(filename)
			}

			for _, task := range tasks {
				watcher.IgnoreNext(task.dst)
				chanTasks <- task
			}

			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt)
			for changes != nil {
				select {
				case <-c:
					watcher.Close()
				case file, ok := <-changes:
					if !ok {
						changes = nil
						break
					}
					file = filepath.Clean(file)
					if !fileMatches(file) {
						break
					}

					// find longest common path among roots
					root := ""
					for _, path := range roots {
						pathRel, err1 := filepath.Rel(path, file)
						rootRel, err2 := filepath.Rel(root, file)
						if err2 != nil || err1 == nil && len(pathRel) < len(rootRel) {
							root = path
						}
					}

					task, err := NewTask(root, file, output)
					if err != nil {
						Error.Println(err)
						return 1
					}
					watcher.IgnoreNext(task.dst) // skip change on output
					chanTasks <- task
				}
			}
		}

		close(chanTasks)
		for n := 0; n < numWorkers; n++ {
			fails += <-chanFails
		}
	}

	if !watch {
		Info.Println("finished in", time.Since(start))
	}
	if 0 < fails {
		return 1
	}
	return 0
}

func minifyWorker(chanTasks <-chan Task, chanFails chan<- int) {
	fails := 0
	for task := range chanTasks {
		if ok := minify(task); !ok {
			fails++
		}
	}
	chanFails <- fails
}

func fileMatches(filename string) bool {
	ext := filepath.Ext(filename)
	if 0 < len(ext) {
		ext = ext[1:]
	}
	_, ok := extMap[ext]
	return ok
}

func createTasks(fsys fs.FS, inputs []string, output string) ([]Task, []string, error) {
	tasks := []Task{}
	roots := []string{}
	for _, input := range inputs {
		root := filepath.Clean(filepath.Dir(input))
		input = filepath.Clean(input)

		info, err := fs.Stat(fsys, input)
		if err != nil {
			return nil, nil, err
		}

		if info.Mode().IsRegular() {
			task, err := NewTask(root, input, output)
			if err != nil {
				return nil, nil, err
			}
			tasks = append(tasks, task)
		} else if info.Mode().IsDir() {
			if !recursive {
				Warning.Println("--recursive not specified, omitting directory", input)
				continue
			}

			walkFn := func(input string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				} else if d.Name() == "." || d.Name() == ".." {
					return nil
				} else if d.Name() == "" || !hidden && d.Name()[0] == '.' {
					if d.IsDir() {
						return fs.SkipDir
					}
					return nil
				}

				if d.Type().IsRegular() && fileMatches(input) {
					task, err := NewTask(root, input, output)
					if err != nil {
						return err
					}
					tasks = append(tasks, task)
				}
				return nil
			}
			if err := fs.WalkDir(fsys, input, walkFn); err != nil {
				return nil, nil, err
			}
			roots = append(roots, root)
		} else {
			return nil, nil, fmt.Errorf("not a file or directory %s", input)
		}
	}
	return tasks, roots, nil
}

// minifyBytes dispatches on the minifier kind.
func minifyBytes(kind string, b []byte) ([]byte, error) {
	switch kind {
	case "css":
		return htmlmin.MinifyCSS(b)
	case "js":
		return htmlmin.MinifyJS(b)
	}
	return htmlmin.MinifyLimit(b, &opts, maxSize)
}

func minify(t Task) bool {
	kind := "html"
	if t.src != "" {
		ext := filepath.Ext(t.src)
		if 0 < len(ext) {
			ext = ext[1:]
		}
		var ok bool
		if kind, ok = extMap[ext]; !ok {
			Warning.Println("cannot infer filetype from extension in", t.src)
			return false
		}
	}

	srcName := t.src
	if srcName == "" {
		srcName = "stdin"
	}
	dstName := t.dst
	if dstName == "" {
		dstName = "stdout"
	} else if sameFile, _ := SameFile(t.src, t.dst); sameFile {
		// rename original when overwriting
		t.src += ".bak"
		err := try.Do(func(attempt int) (bool, error) {
			ferr := os.Rename(t.dst, t.src)
			return attempt < 5, ferr
		})
		if err != nil {
			Error.Println(err)
			return false
		}
	}

	fr, err := openInputFile(t.src)
	if err != nil {
		Error.Println(err)
		return false
	}
	b, err := io.ReadAll(fr)
	fr.Close()
	if err != nil {
		Error.Println("cannot minify "+srcName+":", err)
		return false
	}

	success := true
	startTime := time.Now()
	out, err := minifyBytes(kind, b)
	if err != nil {
		out = b // copy original
		Error.Println("cannot minify "+srcName+":", err)
		success = false
	}

	fw, err := openOutputFile(t.dst)
	if err != nil {
		Error.Println(err)
		return false
	}
	_, werr := fw.Write(out)
	fw.Close()
	if werr != nil {
		Error.Println(werr)
		return false
	}

	if !quiet {
		dur := time.Since(startTime)
		speed := "Inf MB"
		if 0 < dur {
			speed = humanize.Bytes(uint64(float64(len(b)) / dur.Seconds()))
		}
		ratio := 1.0
		if 0 < len(b) {
			ratio = float64(len(out)) / float64(len(b))
		}

		stats := fmt.Sprintf("(%9v, %6v, %6v, %5.1f%%, %6v/s)", dur, humanize.Bytes(uint64(len(b))), humanize.Bytes(uint64(len(out))), ratio*100, speed)
		if srcName != dstName {
			fmt.Println(stats, "-", srcName, "to", dstName)
		} else {
			fmt.Println(stats, "-", srcName)
		}
	}

	// remove original that was renamed, when overwriting files
	if t.src == t.dst+".bak" {
		if success {
			err = os.Remove(t.src)
		} else if err = os.Remove(t.dst); err == nil {
			err = os.Rename(t.src, t.dst)
		}
		if err != nil {
			Error.Println(err)
			return false
		}
		t.src = t.dst
	}
	preserveAttributes(t.src, t.root, t.dst)
	return success
}

func preserveAttributes(src, root, dst string) {
	if src == "" || dst == "" {
		return
	}

	// only set attributes on directories and files inside the root destination
	var err error
	src, err = filepath.Rel(root, src)
	if err != nil {
		// should never occur
		Error.Printf("src is not part of root path: src=%s root=%s", src, root)
		return
	}

Next:
	srcInfo, err := os.Stat(filepath.Join(root, src))
	if err != nil {
		Warning.Println(err)
		return
	}

	if preserveMode {
		if err = os.Chmod(dst, srcInfo.Mode().Perm()); err != nil {
			Warning.Println(err)
		}
	}
	if preserveOwnership {
		if uid, gid, ok := getOwnership(srcInfo); ok {
			if err = os.Chown(dst, uid, gid); err != nil {
				Warning.Println(err)
			}
		}
	}
	if preserveTimestamps {
		if err = chtimes(dst, srcInfo); err != nil {
			Warning.Println(err)
		}
	}

	src = filepath.Dir(src)
	dst = filepath.Dir(dst)
	if src != "." {
		// go up to but excluding the root path
		goto Next
	}
}
