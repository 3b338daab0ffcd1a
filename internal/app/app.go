// Package app runs the textspan viewer: a tcell frontend over the
// property-carrying buffer, with undo history and syntax faces.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/textspan/internal/config"
	"github.com/kobzarvs/textspan/internal/gitinfo"
	"github.com/kobzarvs/textspan/internal/highlight"
	"github.com/kobzarvs/textspan/internal/intervals"
	"github.com/kobzarvs/textspan/internal/logger"
	"github.com/kobzarvs/textspan/internal/session"
	"github.com/kobzarvs/textspan/internal/textprop"
	"github.com/kobzarvs/textspan/internal/textstore"
	"github.com/kobzarvs/textspan/internal/undo"
)

// App is the top-level runtime for textspan.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

type viewer struct {
	cfg    config.Config
	buf    *textstore.Buffer
	rec    *undo.Recorder
	ann    *highlight.Annotator
	sess   *session.Manager
	path   string
	branch string

	scroll int
	status string

	// pending is the detached undo chain being replayed; non-nil only
	// while consecutive undo commands run.
	pending *undo.List
	// lastInsert is true when the previous command was a self-insert,
	// so the recorder can keep coalescing instead of opening a group.
	lastInsert bool

	faces     map[string]tcell.Style
	baseStyle tcell.Style
	barStyle  tcell.Style
}

func (a *App) Run() error {
	runtime.LockOSThread()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if len(a.args) == 0 {
		return fmt.Errorf("usage: textspan FILE")
	}
	path, err := filepath.Abs(a.args[0])
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	buf := textstore.New(filepath.Base(path), string(data))
	buf.Intervals().SetBalanceThreshold(cfg.Intervals.BalanceThreshold)

	v := &viewer{
		cfg:    cfg,
		buf:    buf,
		rec:    undo.NewRecorder(),
		path:   path,
		branch: gitinfo.Branch(path),
	}
	v.buildStyles()

	lang := cfg.Editor.Language
	if lang == "" {
		lang = highlight.DetectLanguage(path)
	}
	if lang != "" {
		ann, err := highlight.New(lang)
		if err != nil {
			logger.Warn("highlighting unavailable", "language", lang, "error", err)
		} else {
			v.ann = ann
		}
	}
	v.annotate()

	if sess, err := session.NewManager(); err == nil {
		v.sess = sess
		if st, ok := sess.GetFileState(path); ok {
			buf.SetPoint(st.Point)
			v.scroll = st.Scroll
		}
	} else {
		logger.Warn("session manager unavailable", "error", err)
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	defer func() {
		if v.sess != nil {
			v.sess.SetFileState(path, session.FileState{
				Point:  buf.Point(),
				Scroll: v.scroll,
			})
			v.sess.Stop()
		}
	}()

	v.render(s)
	for {
		switch ev := s.PollEvent().(type) {
		case *tcell.EventKey:
			if v.handleKey(ev) {
				return nil
			}
		case *tcell.EventResize:
			s.Sync()
		}
		_, h := s.Size()
		v.updateScroll(h - 1)
		v.render(s)
	}
}

func (v *viewer) buildStyles() {
	fg := tcell.GetColor(v.cfg.Theme.Foreground)
	bg := tcell.GetColor(v.cfg.Theme.Background)
	v.baseStyle = tcell.StyleDefault.Foreground(fg).Background(bg)
	v.barStyle = tcell.StyleDefault.
		Foreground(tcell.GetColor(v.cfg.Theme.StatuslineForeground)).
		Background(tcell.GetColor(v.cfg.Theme.StatuslineBackground))
	face := func(hex string) tcell.Style {
		return v.baseStyle.Foreground(tcell.GetColor(hex))
	}
	v.faces = map[string]tcell.Style{
		"keyword":  face(v.cfg.Theme.FaceKeyword),
		"string":   face(v.cfg.Theme.FaceString),
		"comment":  face(v.cfg.Theme.FaceComment),
		"type":     face(v.cfg.Theme.FaceType),
		"function": face(v.cfg.Theme.FaceFunction),
		"number":   face(v.cfg.Theme.FaceNumber),
		"constant": face(v.cfg.Theme.FaceConstant),
		"operator": face(v.cfg.Theme.FaceOperator),
		"builtin":  face(v.cfg.Theme.FaceBuiltin),
		"variable": face(v.cfg.Theme.FaceVariable),
	}
}

func (v *viewer) annotate() {
	if v.ann == nil {
		return
	}
	if err := v.ann.Annotate(v.buf); err != nil {
		logger.Error("annotation failed", "error", err)
	}
}

// handleKey runs one command. It returns true when the viewer should quit.
func (v *viewer) handleKey(ev *tcell.EventKey) bool {
	v.status = ""
	wasInsert := v.lastInsert
	v.lastInsert = false
	if ev.Key() != tcell.KeyCtrlZ {
		v.pending = nil
	}

	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyEscape:
		return true
	case tcell.KeyCtrlS:
		v.save()
	case tcell.KeyCtrlZ:
		v.undo()
	case tcell.KeyLeft:
		v.buf.SetPoint(v.buf.Point() - 1)
	case tcell.KeyRight:
		v.buf.SetPoint(v.buf.Point() + 1)
	case tcell.KeyUp:
		v.moveLine(-1)
	case tcell.KeyDown:
		v.moveLine(1)
	case tcell.KeyPgUp:
		v.moveLine(-20)
	case tcell.KeyPgDn:
		v.moveLine(20)
	case tcell.KeyHome:
		line, _ := v.pointLine()
		starts := v.lineStarts()
		v.buf.SetPoint(starts[line])
	case tcell.KeyEnd:
		line, _ := v.pointLine()
		v.buf.SetPoint(v.lineEnd(line))
	case tcell.KeyEnter:
		v.insert("\n", wasInsert)
	case tcell.KeyTab:
		v.insert("\t", wasInsert)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		v.deleteRange(v.buf.Point()-1, v.buf.Point())
	case tcell.KeyDelete:
		v.deleteRange(v.buf.Point(), v.buf.Point()+1)
	case tcell.KeyRune:
		v.insert(string(ev.Rune()), wasInsert)
	}
	return false
}

func (v *viewer) insert(text string, coalesce bool) {
	pos := v.buf.Point()
	if !coalesce {
		v.rec.PushBoundary(v.buf)
	}
	v.rec.RecordInsert(v.buf, pos, utf8.RuneCountInString(text))
	v.buf.Insert(pos, text)
	v.lastInsert = true
	v.afterEdit()
}

func (v *viewer) deleteRange(start, end int) {
	lo, hi := v.buf.Bounds()
	if start < lo || end > hi || end <= start {
		return
	}
	v.rec.PushBoundary(v.buf)
	v.rec.RecordDelete(v.buf, start, end)
	v.buf.Delete(start, end)
	v.buf.SetPoint(start)
	v.afterEdit()
}

func (v *viewer) afterEdit() {
	v.buf.SetUndoList(undo.Truncate(v.buf.UndoList(), v.cfg.Undo.Limit, v.cfg.Undo.StrongLimit))
	v.annotate()
}

func (v *viewer) undo() {
	if !v.buf.UndoList().Enabled() {
		v.status = "undo disabled"
		return
	}
	if v.pending == nil {
		v.rec.PushBoundary(v.buf)
		v.pending = v.buf.UndoList().Copy()
		v.pending.SkipBoundary()
	}
	if v.pending.Empty() {
		v.status = "no further undo"
		v.pending = nil
		return
	}
	rest, err := v.rec.Play(v.buf, 1, v.pending)
	if err != nil {
		v.status = err.Error()
		v.pending = nil
		return
	}
	v.pending = rest
	v.rec.PushBoundary(v.buf)
	v.status = "undo"
	v.annotate()
}

func (v *viewer) save() {
	if err := os.WriteFile(v.path, []byte(v.buf.Contents()), 0o644); err != nil {
		v.status = err.Error()
		return
	}
	v.buf.MarkSaved()
	v.status = "saved " + v.path
	logger.Info("saved file", "path", v.path, "length", v.buf.Length())
}

// lineStarts returns the 1-based position of each line start.
func (v *viewer) lineStarts() []int {
	text := v.buf.Contents()
	starts := []int{1}
	p := 1
	for _, r := range text {
		if r == '\n' {
			starts = append(starts, p+1)
		}
		p++
	}
	return starts
}

// lineEnd returns the position just past the last character of the line,
// excluding its newline.
func (v *viewer) lineEnd(line int) int {
	starts := v.lineStarts()
	if line+1 < len(starts) {
		return starts[line+1] - 1
	}
	_, hi := v.buf.Bounds()
	return hi
}

// pointLine returns the 0-based line and column holding point.
func (v *viewer) pointLine() (line, col int) {
	starts := v.lineStarts()
	p := v.buf.Point()
	line = sort.Search(len(starts), func(i int) bool { return starts[i] > p }) - 1
	if line < 0 {
		line = 0
	}
	return line, p - starts[line]
}

func (v *viewer) moveLine(delta int) {
	starts := v.lineStarts()
	line, col := v.pointLine()
	line += delta
	if line < 0 {
		line = 0
	}
	if line >= len(starts) {
		line = len(starts) - 1
	}
	pos := starts[line] + col
	if end := v.lineEnd(line); pos > end {
		pos = end
	}
	v.buf.SetPoint(pos)
}

func (v *viewer) updateScroll(viewHeight int) {
	if viewHeight < 1 {
		return
	}
	line, _ := v.pointLine()
	if line < v.scroll {
		v.scroll = line
	}
	if line >= v.scroll+viewHeight {
		v.scroll = line - viewHeight + 1
	}
	if v.scroll < 0 {
		v.scroll = 0
	}
}

// styleAt maps the face property at pos to a screen style.
func (v *viewer) styleAt(pos int) tcell.Style {
	pl, err := textprop.PropertiesAt(v.buf, pos)
	if err != nil || pl == nil {
		return v.baseStyle
	}
	val, ok := pl.Get(highlight.FaceProp)
	if !ok {
		return v.baseStyle
	}
	sym, ok := val.(intervals.Sym)
	if !ok {
		return v.baseStyle
	}
	if st, ok := v.faces[string(sym)]; ok {
		return st
	}
	return v.baseStyle
}

func (v *viewer) render(s tcell.Screen) {
	w, h := s.Size()
	viewHeight := h - 1
	s.Fill(' ', v.baseStyle)

	starts := v.lineStarts()
	tabWidth := v.cfg.Editor.TabWidth
	if tabWidth < 1 {
		tabWidth = 4
	}

	ptLine, _ := v.pointLine()
	cursorX, cursorY := -1, -1

	for row := 0; row < viewHeight; row++ {
		line := v.scroll + row
		if line >= len(starts) {
			break
		}
		pos := starts[line]
		end := v.lineEnd(line)

		// Walk property runs across the line instead of probing every
		// character.
		style := v.styleAt(pos)
		next, ok, _ := textprop.NextChange(v.buf, pos)
		if !ok {
			next = end
		}

		x := 0
		for p := pos; p < end && x < w; p++ {
			if p >= next {
				style = v.styleAt(p)
				n2, ok, _ := textprop.NextChange(v.buf, p)
				if !ok {
					n2 = end
				}
				next = n2
			}
			if line == ptLine && p == v.buf.Point() {
				cursorX, cursorY = x, row
			}
			ch := []rune(v.buf.ReadRange(p, p+1))
			if len(ch) == 0 {
				break
			}
			if ch[0] == '\t' {
				for i := 0; i < tabWidth && x < w; i++ {
					s.SetContent(x, row, ' ', nil, style)
					x++
				}
				continue
			}
			s.SetContent(x, row, ch[0], nil, style)
			x++
		}
		if line == ptLine && v.buf.Point() >= end {
			cursorX, cursorY = x, row
		}
	}
	if cursorX >= 0 {
		s.ShowCursor(cursorX, cursorY)
	} else {
		s.HideCursor()
	}

	v.renderStatus(s, w, h-1)
	s.Show()
}

func (v *viewer) renderStatus(s tcell.Screen, w, row int) {
	mark := "  "
	if v.buf.Modified() {
		mark = " *"
	}
	left := v.buf.Name() + mark
	if v.branch != "" {
		left += "  (" + v.branch + ")"
	}
	line, col := v.pointLine()
	right := fmt.Sprintf("L%d:%d  pt %d/%d", line+1, col+1, v.buf.Point(), v.buf.Length()+1)
	if v.status != "" {
		left += "  " + v.status
	}

	for x := 0; x < w; x++ {
		s.SetContent(x, row, ' ', nil, v.barStyle)
	}
	x := 1
	for _, r := range left {
		if x >= w {
			break
		}
		s.SetContent(x, row, r, nil, v.barStyle)
		x++
	}
	x = w - len(right) - 1
	for _, r := range right {
		if x >= 0 && x < w {
			s.SetContent(x, row, r, nil, v.barStyle)
		}
		x++
	}
}
