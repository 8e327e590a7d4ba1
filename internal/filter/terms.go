package filter

// TermsVersion identifies the blacklist revision in effect. Bump when the
// term sets change so telemetry from different runs stays comparable.
const TermsVersion = 2

// nsfwTerms drops sexual or explicit material. Matched with word
// boundaries; see TestFilterWordBoundary for the known false-positive
// guards ("Sussex", "Essex").
var nsfwTerms = []string{
	"adult film",
	"adult movie",
	"bdsm",
	"bondage",
	"erotic",
	"erotica",
	"fetish",
	"hentai",
	"naked",
	"nsfw",
	"nude",
	"nudist",
	"nudity",
	"porn",
	"porno",
	"pornographic",
	"pornography",
	"sex",
	"sexual",
	"sexy",
	"softcore",
	"xxx",
}

// gamesTerms drops video game and software-library material, which
// dominates archive search results for many topics but makes unusable
// footage.
var gamesTerms = []string{
	"abandonware",
	"amiga",
	"arcade",
	"atari",
	"commodore",
	"dreamcast",
	"emulation",
	"emulator",
	"famicom",
	"freeware",
	"gameboy",
	"gamecube",
	"gameplay",
	"mame",
	"ms-dos",
	"msdos",
	"nintendo",
	"playstation",
	"rom",
	"roms",
	"sega",
	"shareware",
	"snes",
	"software library",
	"speedrun",
	"video game",
	"video games",
	"videogame",
	"videogames",
	"walkthrough",
	"wii",
	"xbox",
}
