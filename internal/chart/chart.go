// Package chart builds the embeddable price chart for a ticker.
package chart

import "net/url"

const embedBase = "https://www.tradingview.com/widgetembed/"

// fixed widget settings: daily candles, light theme, UTC axis
const embedParams = "&interval=D&hidesidetoolbar=0&symboledit=1&saveimage=1&toolbarbg=f1f3f6" +
	"&studies=[]&theme=light&style=1&timezone=Etc%2FUTC&withdateranges=1&hideideas=1&studies_overrides={}"

// EmbedURL returns the TradingView widget URL for ticker, or "" for an empty ticker
func EmbedURL(ticker string) string {
	if ticker == "" {
		return ""
	}
	return embedBase + "?symbol=" + url.QueryEscape(ticker) + embedParams
}
