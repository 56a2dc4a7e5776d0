package generator

import (
	"strconv"
	"strings"
	"text/template"
	"time"
	"unicode"
)

// Statement templates for the generated Python/Selenium program. Values reach
// the program only through py, which renders a double-quoted string literal.
var scriptTemplates = template.Must(template.New("script").Funcs(template.FuncMap{
	"py":      pyString,
	"secs":    pySeconds,
	"oneline": singleLine,
}).Parse(`
{{define "header"}}import logging
import time
from selenium import webdriver
from selenium.webdriver.common.by import By
from selenium.webdriver.common.keys import Keys
from selenium.webdriver.common.action_chains import ActionChains
from selenium.webdriver.support.ui import WebDriverWait
from selenium.webdriver.support import expected_conditions as EC
from selenium.webdriver.support.ui import Select

logging.basicConfig(
    level=logging.INFO,
    format="%(asctime)s - %(levelname)s - %(message)s",
    handlers=[
        logging.FileHandler({{py .Opt.LogFile}}),
        logging.StreamHandler(),
    ],
)
logger = logging.getLogger()


def run_test():
    logger.info("Starting Automation Script")
    options = webdriver.ChromeOptions()
    options.add_argument("--start-maximized")
    driver = webdriver.Chrome(options=options)

    logger.info("Navigating to start URL: %s", {{py .StartURL}})
    driver.get({{py .StartURL}})
{{end}}

{{define "footer"}}    logger.info("Test Completed Successfully")
    time.sleep({{secs .Opt.ShutdownGrace}})
    driver.quit()


if __name__ == "__main__":
    run_test()
{{end}}

{{define "navigation"}}    # Detected URL change to {{oneline .Segment}}
    logger.info("Waiting for navigation to %s...", {{py .Segment}})
    try:
        WebDriverWait(driver, {{secs .Opt.NavigationTimeout}}).until(EC.url_contains({{py .Segment}}))
        logger.info("Navigation check passed.")
    except Exception:
        logger.warning("Navigation timeout - verify if URL is correct.")
{{end}}

{{define "click"}}    try:
        logger.info("Clicking element: %s", {{py .Sel.Value}})
        element = WebDriverWait(driver, {{secs .Opt.ElementTimeout}}).until(
            EC.presence_of_element_located(({{.Sel.By}}, {{py .Sel.Value}}))
        )
        driver.execute_script("arguments[0].scrollIntoView({block: 'center'});", element)
        time.sleep(0.5)
        try:
            WebDriverWait(driver, {{secs .Opt.ClickableTimeout}}).until(EC.element_to_be_clickable(({{.Sel.By}}, {{py .Sel.Value}})))
            ActionChains(driver).move_to_element(element).click().perform()
        except Exception:
            logger.warning("Standard click failed, attempting JS Force Click.")
            driver.execute_script("arguments[0].click();", element)
    except Exception as e:
        logger.error("Failed to click %s: %s", {{py .Sel.Value}}, e)
{{end}}

{{define "select"}}    logger.info("Selecting value %s in dropdown: %s", {{py .Value}}, {{py .Sel.Value}})
    try:
        element = WebDriverWait(driver, {{secs .Opt.ElementTimeout}}).until(
            EC.presence_of_element_located(({{.Sel.By}}, {{py .Sel.Value}}))
        )
        driver.execute_script("arguments[0].scrollIntoView({block: 'center'});", element)
        try:
            Select(element).select_by_value({{py .Value}})
        except Exception:
            Select(element).select_by_visible_text({{py .Value}})
    except Exception as e:
        logger.error("Failed to select %s in %s: %s", {{py .Value}}, {{py .Sel.Value}}, e)
{{end}}

{{define "input"}}    logger.info("Inputting text into: %s", {{py .Sel.Value}})
    try:
        element = WebDriverWait(driver, {{secs .Opt.ElementTimeout}}).until(
            EC.presence_of_element_located(({{.Sel.By}}, {{py .Sel.Value}}))
        )
        driver.execute_script("arguments[0].scrollIntoView({block: 'center'});", element)
        time.sleep(0.2)
        element.clear()
        element.send_keys({{py .Value}})
    except Exception as e:
        logger.error("Failed to input text %s: %s", {{py .Sel.Value}}, e)
{{end}}

{{define "scroll"}}    logger.info("Scrolling to ({{.X}}, {{.Y}})")
    driver.execute_script("window.scrollTo({{.X}}, {{.Y}})")
{{end}}

{{define "key"}}    logger.info("Sending Key: %s", {{py .Key}})
    try:
        ActionChains(driver).send_keys(Keys.{{.KeyConst}}).perform()
    except Exception:
        driver.switch_to.active_element.send_keys(Keys.{{.KeyConst}})
{{end}}
`))

// templateData is the single context every statement template renders from.
type templateData struct {
	Opt      Options
	StartURL string
	Segment  string
	Sel      selectorView
	Value    string
	X, Y     string
	Key      string
	KeyConst string
}

type selectorView struct {
	By    string
	Value string
}

func render(name string, data templateData) (string, error) {
	var b strings.Builder
	if err := scriptTemplates.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// pyString quotes s as a Python string literal. Go's escape sequences are a
// subset of Python's, so strconv output is valid Python source.
func pyString(s string) string {
	return strconv.Quote(s)
}

func pySeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// pyComment renders a single-line comment at statement indentation.
func pyComment(text string) string {
	return "    # " + singleLine(text) + "\n"
}

// singleLine replaces control characters, line breaks included, with spaces
// so text can sit inside a Python comment.
func singleLine(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == '\u2028' || r == '\u2029' {
			return ' '
		}
		return r
	}, text)
}
