package permission

import "strings"

// Family groups browsers that share the same popup settings.
type Family int

const (
	Other Family = iota
	Firefox
	Chromium
)

func (f Family) String() string {
	switch f {
	case Firefox:
		return "firefox"
	case Chromium:
		return "chromium"
	default:
		return "other"
	}
}

// DetectFamily guesses the family from a browser command or name.
func DetectFamily(hint string) Family {
	h := strings.ToLower(hint)
	switch {
	case strings.Contains(h, "firefox"), strings.Contains(h, "librewolf"), strings.Contains(h, "waterfox"):
		return Firefox
	case strings.Contains(h, "chrom"), strings.Contains(h, "brave"), strings.Contains(h, "edge"),
		strings.Contains(h, "vivaldi"), strings.Contains(h, "opera"):
		return Chromium
	default:
		return Other
	}
}

const firefoxInstructions = `# Allow dealscout to open tabs in Firefox

1. Open **Settings** and go to **Privacy & Security**.
2. Scroll to **Permissions** and find **Block pop-up windows**.
3. Click **Exceptions...** and add the sites you search, or turn blocking off.
4. Run ` + "`dealscout permission request`" + ` (or press **p** in the app) to check again.
`

const chromiumInstructions = `# Allow dealscout to open tabs in Chrome-based browsers

1. Open **Settings** and go to **Privacy and security**, then **Site settings**.
2. Under **Content**, open **Pop-ups and redirects**.
3. Add the sites you search to **Allowed to send pop-ups and use redirects**.
4. Run ` + "`dealscout permission request`" + ` (or press **p** in the app) to check again.
`

const otherInstructions = `# Allow dealscout to open browser windows

dealscout could not open a browser window.

- Make sure a default browser is set, or set ` + "`browser.command`" + ` in the config file.
- On Linux, a graphical session is needed (` + "`DISPLAY`" + ` or ` + "`WAYLAND_DISPLAY`" + `).
- If your browser blocks pop-ups, allow them for the sites you search.
- Use ` + "`dealscout search --print`" + ` to print the links instead.

Run ` + "`dealscout permission request`" + ` (or press **p** in the app) to check again.
`

// Instructions returns markdown that tells the user how to allow new windows
// in browsers of family f.
func Instructions(f Family) string {
	switch f {
	case Firefox:
		return firefoxInstructions
	case Chromium:
		return chromiumInstructions
	default:
		return otherInstructions
	}
}
