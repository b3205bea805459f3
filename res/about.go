package res

// AboutContent contains the Markdown content for the About dialog.
// This is maintained separately for easy updates.
const AboutContent = `A small slideshow built with Go and Fyne.

**Features:**
- Show pictures, GIF animations and album covers from a folder
- YAML decks with text and image slides
- A new slide every five seconds, with a fade between slides
- Cross-platform support
`

// WelcomeCard is one text slide of the built-in welcome deck.
type WelcomeCard struct {
	Title string
	Body  string
}

// WelcomeDeck is shown when no source was given and none is remembered.
var WelcomeDeck = []WelcomeCard{
	{
		Title: "Welcome to GoSlide",
		Body: `# Welcome to GoSlide

Every five seconds the current slide fades out and the next one fades in.
After the last slide the show starts over.`,
	},
	{
		Title: "Open a folder",
		Body: `## Open a folder

Use **File → Open Folder** to show every picture in a folder and its subfolders.

Supported: PNG, JPEG, BMP, SVG, animated GIF and the cover art of MP3, FLAC, M4A and OGG files.`,
	},
	{
		Title: "Open a deck",
		Body: "## Open a deck\n\n" +
			"A deck is a YAML file listing slides in order:\n\n" +
			"```yaml\n" +
			"title: Holiday\n" +
			"slides:\n" +
			"  - title: Beach\n" +
			"    image: photos/beach.jpg\n" +
			"  - title: Thanks\n" +
			"    text: \"**See you next year**\"\n" +
			"```",
	},
	{
		Title: "Full screen",
		Body: `## Full screen

Double tap the slide to toggle full screen, press **Escape** to leave it.
A secondary click opens the same menu as the menu bar.`,
	},
}
