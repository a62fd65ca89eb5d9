package trade

import (
	"fmt"
	"net/url"

	"github.com/gagliardetto/solana-go"
)

const explorerBaseURL = "https://explorer.solana.com"

// ExplorerTxURL returns the explorer link of a transaction. A "custom" cluster
// links to the RPC endpoint the transaction was sent to.
func ExplorerTxURL(sig solana.Signature, cluster, rpcURL string) string {
	if cluster == "" {
		cluster = "devnet"
	}
	link := fmt.Sprintf("%s/tx/%s?cluster=%s", explorerBaseURL, sig.String(), url.QueryEscape(cluster))
	if cluster == "custom" && rpcURL != "" {
		link += "&customUrl=" + url.QueryEscape(rpcURL)
	}
	return link
}

// ExplorerURL returns the explorer link of sig for the runner's cluster.
func (r *Runner) ExplorerURL(sig solana.Signature) string {
	return ExplorerTxURL(sig, r.settings.ExplorerCluster, r.settings.RPCURL)
}
