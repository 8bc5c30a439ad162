package crawler

// Listing page scripts. Each is a function expression taking one argument.
const (
	scrollByJS = `(step) => { window.scrollBy(0, step); return true; }`

	scrollTopJS = `() => { window.scrollTo(0, 0); return true; }`

	countLinksJS = `(selector) => document.querySelectorAll(selector).length`

	// listingAnchorsJS returns every candidate link raw; filtering happens in Go
	listingAnchorsJS = `(selector) => Array.from(document.querySelectorAll(selector)).map((a) => {
		const img = a.querySelector("img");
		return {
			href: a.getAttribute("href") || "",
			text: a.innerText || "",
			img: img ? (img.src || "") : "",
		};
	})`

	// cardNamesJS walks up from each add button to its card and returns the
	// card's first meaningful line, in button order.
	cardNamesJS = `(opts) => Array.from(document.querySelectorAll("button"))
		.filter((b) => (b.innerText || "").includes(opts.label))
		.map((b) => {
			let card = b;
			for (let i = 0; i < opts.levels && card.parentElement; i++) {
				card = card.parentElement;
			}
			const lines = (card.innerText || "").split("\n")
				.map((l) => l.trim())
				.filter((l) => l && l !== opts.label && l !== "Connect");
			return lines[0] || "";
		})`
)

type rawAnchor struct {
	Href string `json:"href"`
	Text string `json:"text"`
	Img  string `json:"img"`
}

type cardNamesArgs struct {
	Label  string `json:"label"`
	Levels int    `json:"levels"`
}
