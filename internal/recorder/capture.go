package recorder

// bindingName is the page-side function the capture script calls with a
// JSON-encoded event. It is installed through Runtime.addBinding, so it
// survives navigations and reloads.
const bindingName = "selenexEmit"

const captureScript = `
(function() {
	if (window.__selenexInstalled) return;
	window.__selenexInstalled = true;

	var MAX_TEXT_LENGTH = 5000;
	var INTERACTIVE = "a, button, input, textarea, select, [role='button']";
	var SPECIAL_KEYS = ["Enter", "Escape", "Tab"];

	function emit(payload) {
		if (typeof window.` + bindingName + ` !== "function") return;
		try {
			window.` + bindingName + `(JSON.stringify(payload));
		} catch (e) {}
	}

	function elementContext(el) {
		var parents = [];
		var current = el.parentElement;
		while (current && parents.length < 5) {
			parents.push({
				tag: current.tagName,
				id: current.id || null,
				class: current.getAttribute("class") || null
			});
			current = current.parentElement;
		}
		return {
			tag: el.tagName,
			text: (el.innerText || "").trim(),
			attributes: {
				id: el.id,
				class: el.getAttribute("class"),
				href: el.getAttribute("href"),
				name: el.getAttribute("name"),
				placeholder: el.getAttribute("placeholder"),
				role: el.getAttribute("role"),
				ariaExpanded: el.getAttribute("aria-expanded"),
				target: el.getAttribute("target"),
				type: el.getAttribute("type"),
				dataTestId: el.getAttribute("data-testid") || el.getAttribute("data-cy")
			},
			parentChain: parents
		};
	}

	function fingerprint() {
		var text = document.body ? document.body.innerText.slice(0, MAX_TEXT_LENGTH) : "";
		var hash = 0;
		for (var i = 0; i < text.length; i++) {
			hash = ((hash << 5) - hash) + text.charCodeAt(i);
			hash = hash & hash;
		}
		var landmarks = document.querySelectorAll("header, nav, main, footer, section, article");
		var signature = [];
		for (var j = 0; j < landmarks.length && signature.length < 10; j++) {
			var node = landmarks[j];
			signature.push(node.tagName.toLowerCase() + (node.id ? "#" + node.id : ""));
		}
		return {
			url: window.location.href,
			title: document.title,
			visibleTextHash: hash.toString(16),
			domSignature: signature
		};
	}

	document.addEventListener("click", function(e) {
		var el = e.target.closest ? e.target.closest(INTERACTIVE) : null;
		if (el) {
			var anchor = el.closest("a[href]");
			if (anchor) el = anchor;
		}
		if (!el && e.target.hasAttribute && e.target.hasAttribute("data-testid")) {
			el = e.target;
		}
		if (!el) return;
		emit({
			action: "click",
			elementContext: elementContext(el),
			fingerprint: fingerprint(),
			timestamp: Date.now()
		});
	}, true);

	var scrollTimer = null;
	document.addEventListener("scroll", function() {
		if (scrollTimer) return;
		scrollTimer = setTimeout(function() {
			emit({
				action: "scroll",
				x: window.scrollX,
				y: window.scrollY,
				fingerprint: { url: window.location.href },
				timestamp: Date.now()
			});
			scrollTimer = null;
		}, 500);
	}, true);

	document.addEventListener("change", function(e) {
		var tag = e.target.tagName;
		if (tag !== "INPUT" && tag !== "TEXTAREA" && tag !== "SELECT") return;
		emit({
			action: "input",
			elementContext: elementContext(e.target),
			value: e.target.value,
			fingerprint: fingerprint(),
			timestamp: Date.now()
		});
	}, true);

	document.addEventListener("keydown", function(e) {
		if (SPECIAL_KEYS.indexOf(e.key) < 0) return;
		emit({
			action: "keydown",
			key: e.key,
			elementContext: elementContext(e.target),
			fingerprint: fingerprint(),
			timestamp: Date.now()
		});
	}, true);
})();
`
