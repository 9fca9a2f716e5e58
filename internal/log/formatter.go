package log

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

type formatter struct {
	pattern string
	time    string
	// caller enables %caller and %func; without it both render as "-".
	caller bool
}

// Format supports the placeholders %time, %level, %field, %msg, %caller, %func and %n.
func (f *formatter) Format(entry *logrus.Entry) ([]byte, error) {
	output := strings.ReplaceAll(f.pattern, "%n", "\n")
	output = strings.Replace(output, "%time", entry.Time.Format(f.time), 1)
	output = strings.Replace(output, "%level", strings.ToUpper(entry.Level.String()), 1)
	callerText, funcText := "-", "-"
	if f.caller {
		if frame, ok := callerFrame(); ok {
			callerText, funcText = getCaller(frame), getFunc(frame)
		}
	}
	output = strings.Replace(output, "%caller", callerText, 1)
	output = strings.Replace(output, "%func", funcText, 1)
	// values last so their text is never taken for a placeholder
	output = strings.Replace(output, "%field", buildFields(entry), 1)
	output = strings.Replace(output, "%msg", entry.Message, 1)
	return []byte(output), nil
}

// logDir holds this package's sources; frames there and in logrus are
// skipped when locating the caller.
var logDir = func() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}()

// callerFrame returns the first frame outside logrus and this package.
// Tests of this package count as callers.
func callerFrame() (runtime.Frame, bool) {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		internal := filepath.Dir(frame.File) == logDir && !strings.HasSuffix(frame.File, "_test.go")
		if !internal && !strings.Contains(frame.Function, "github.com/sirupsen/logrus") {
			return frame, true
		}
		if !more {
			return runtime.Frame{}, false
		}
	}
}

// package/file.go:line of the call site
func getCaller(frame runtime.Frame) string {
	file := frame.File
	if slashIdx := strings.LastIndex(file, "/"); slashIdx != -1 {
		file = file[slashIdx+1:]
	}
	pkg := frame.Function
	if slashIdx := strings.LastIndex(pkg, "/"); slashIdx != -1 {
		pkg = pkg[slashIdx+1:]
	}
	if dotIdx := strings.Index(pkg, "."); dotIdx != -1 {
		pkg = pkg[:dotIdx]
	}
	return fmt.Sprintf("%s/%s:%d", pkg, file, frame.Line)
}

func getFunc(frame runtime.Frame) string {
	funcName := frame.Function
	if dotIdx := strings.LastIndex(funcName, "."); dotIdx != -1 {
		return funcName[dotIdx+1:]
	}
	return funcName
}

// key=value pairs sorted by key so lines are stable
func buildFields(entry *logrus.Entry) string {
	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fields := make([]string, 0, len(keys))
	for _, key := range keys {
		val := entry.Data[key]
		stringVal, ok := val.(string)
		if !ok {
			stringVal = fmt.Sprint(val)
		}
		fields = append(fields, key+"="+stringVal)
	}
	return strings.Join(fields, ",")
}
