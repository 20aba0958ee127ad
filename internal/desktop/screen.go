package desktop

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/termdesk/internal/emulator"
	"github.com/dshills/termdesk/internal/input/key"
)

// NewScreen creates and initializes the terminal screen with mouse and
// bracketed paste enabled. The caller must Fini it.
func NewScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	screen.EnablePaste()
	return screen, nil
}

// convertKey converts a tcell key event to a key.Event.
//
// Control characters that double as named keys (Tab, Enter, Backspace,
// Escape) come out as those keys; the remaining Ctrl-letter codes become the
// letter plus Ctrl.
func convertKey(ev *tcell.EventKey) (key.Event, bool) {
	mods := convertMod(ev.Modifiers())

	switch k := ev.Key(); k {
	case tcell.KeyRune:
		return key.NewRuneEvent(ev.Rune(), mods), true
	case tcell.KeyEscape:
		return key.NewSpecialEvent(key.KeyEscape, mods), true
	case tcell.KeyEnter:
		return key.NewSpecialEvent(key.KeyEnter, mods), true
	case tcell.KeyTab:
		return key.NewSpecialEvent(key.KeyTab, mods), true
	case tcell.KeyBacktab:
		return key.NewSpecialEvent(key.KeyTab, mods.With(key.ModShift)), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.NewSpecialEvent(key.KeyBackspace, mods), true
	case tcell.KeyDelete:
		return key.NewSpecialEvent(key.KeyDelete, mods), true
	case tcell.KeyInsert:
		return key.NewSpecialEvent(key.KeyInsert, mods), true
	case tcell.KeyHome:
		return key.NewSpecialEvent(key.KeyHome, mods), true
	case tcell.KeyEnd:
		return key.NewSpecialEvent(key.KeyEnd, mods), true
	case tcell.KeyPgUp:
		return key.NewSpecialEvent(key.KeyPageUp, mods), true
	case tcell.KeyPgDn:
		return key.NewSpecialEvent(key.KeyPageDown, mods), true
	case tcell.KeyUp:
		return key.NewSpecialEvent(key.KeyUp, mods), true
	case tcell.KeyDown:
		return key.NewSpecialEvent(key.KeyDown, mods), true
	case tcell.KeyLeft:
		return key.NewSpecialEvent(key.KeyLeft, mods), true
	case tcell.KeyRight:
		return key.NewSpecialEvent(key.KeyRight, mods), true
	case tcell.KeyCtrlSpace:
		return key.NewSpecialEvent(key.KeySpace, mods.With(key.ModCtrl)), true
	default:
		if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
			return key.NewSpecialEvent(key.KeyF1+key.Key(k-tcell.KeyF1), mods), true
		}
		if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
			r := 'a' + rune(k-tcell.KeyCtrlA)
			return key.NewRuneEvent(r, mods.With(key.ModCtrl)), true
		}
		return key.Event{}, false
	}
}

// convertMod converts a tcell modifier mask.
func convertMod(m tcell.ModMask) key.Modifier {
	var result key.Modifier
	if m&tcell.ModShift != 0 {
		result = result.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		result = result.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		result = result.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		result = result.With(key.ModMeta)
	}
	return result
}

// cellStyle converts an emulator cell to a tcell style.
func cellStyle(c emulator.Cell) tcell.Style {
	return tcell.StyleDefault.
		Foreground(rgb(c.Foreground)).
		Background(rgb(c.Background)).
		Bold(c.Flags.Has(emulator.FlagBold)).
		Italic(c.Flags.Has(emulator.FlagItalic)).
		Underline(c.Flags.Has(emulator.FlagUnderline))
}

func rgb(c emulator.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
