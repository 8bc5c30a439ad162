package browser

// Page scripts shared by the drivers that have no native locator API
const (
	bodyTextJS = `() => document.body ? document.body.innerText : ""`

	containsTextJS = `(text) => !!document.body && document.body.innerText.includes(text)`

	// clickTextJS clicks the innermost element whose normalized text matches
	// and reports whether anything was clicked.
	clickTextJS = `(opts) => {
		const norm = (s) => (s || "").replace(/\s+/g, " ").trim();
		const want = norm(opts.text);
		const nodes = Array.from(document.querySelectorAll(opts.selector || "*"));
		const hits = nodes.filter((el) => {
			const got = norm(el.innerText);
			return opts.exact ? got === want : got.includes(want);
		});
		const target = hits.find((el) => !hits.some((o) => o !== el && el.contains(o)));
		if (!target) {
			return false;
		}
		target.scrollIntoView({ block: "center" });
		target.click();
		return true;
	}`
)

type clickArgs struct {
	Selector string `json:"selector"`
	Text     string `json:"text"`
	Exact    bool   `json:"exact"`
}
