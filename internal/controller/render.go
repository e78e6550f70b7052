package controller

import (
	"fmt"
	"io"
	"strings"

	tm "github.com/buger/goterm"

	"museum-artifact-backend/internal/model"
)

// Render writes a simulated playback of a fired response: a sound progress
// bar and a light pattern preview, one channel block per enabled channel.
func Render(w io.Writer, playback *Playback) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, tm.Bold("RESPONSE TRIGGERED"))
	fmt.Fprintf(w, "   Artifact: %s (%s)\n", playback.ArtifactName, playback.ArtifactID)
	fmt.Fprintf(w, "   Time: %s\n", playback.TriggeredAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "   Type: %s\n", strings.ToUpper(string(playback.Response.Type)))
	fmt.Fprintln(w, strings.Repeat("=", 60))

	if playback.Response.Sound != nil {
		renderSound(w, playback.Response.Sound)
	}
	if playback.Response.Light != nil {
		renderLight(w, playback.Response.Light)
	}
	if playback.Response.Sound == nil && playback.Response.Light == nil {
		fmt.Fprintln(w, tm.Color("   No response configured", tm.RED))
	}
}

func renderSound(w io.Writer, cue *SoundCue) {
	fmt.Fprintln(w, tm.Color("SOUND SYSTEM", tm.CYAN))
	fmt.Fprintf(w, "   File: %s\n", tm.Bold(cue.File))
	fmt.Fprintf(w, "   Volume: %d%%\n", cue.Volume)
	fmt.Fprintf(w, "   Duration: %dms\n", cue.Duration)
	fmt.Fprintf(w, "   Playing: [%s] 100%%\n", strings.Repeat("█", 20))
	fmt.Fprintln(w, tm.Color("   Sound playback complete", tm.GREEN))
}

func renderLight(w io.Writer, cue *LightCue) {
	fmt.Fprintln(w, tm.Color("LIGHT SYSTEM", tm.YELLOW))
	fmt.Fprintf(w, "   Color: %s\n", tm.Bold(cue.Color))
	fmt.Fprintf(w, "   Pattern: %s\n", cue.Pattern)
	fmt.Fprintf(w, "   Intensity: %d%%\n", cue.Intensity)
	fmt.Fprintf(w, "   Duration: %dms\n", cue.Duration)
	fmt.Fprintf(w, "   Display: %s\n", lightGlyphs(cue.Pattern))
	fmt.Fprintln(w, tm.Color("   Light sequence complete", tm.GREEN))
}

// lightGlyphs previews a light pattern in the terminal. The switch is
// exhaustive over the pattern enum; an unknown value falls back to solid.
func lightGlyphs(pattern model.LightPattern) string {
	switch pattern {
	case model.LightSolid:
		return "●●●●●●●●●●"
	case model.LightBlink:
		return "●○●○●○●○●○"
	case model.LightPulse:
		return "◐◑◐◑◐◑◐◑◐◑"
	case model.LightRainbow:
		return "🔴🟠🟡🟢🔵🟣"
	}
	return "●●●●●●●●●●"
}
