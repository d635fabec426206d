package cli

import (
	"fmt"
	"io"
)

const usageText = `Usage:
	 sbxcloud deploy <local-path> <folder-key> <domain-id>
	 Options:
		 --username=<sbxcloud-username>
		 --password=<sbxcloud-password>
		 --yes                 deploy without asking for confirmation
		 --config=<file>       JSON config file
		 --api-url=<url>       API base URL (default https://sbxcloud.com)
		 --concurrency=<n>     concurrent uploads per folder (default 3)
		 --timeout=<duration>  timeout for a single remote call (default 1m0s)
		 --ignore=<patterns>   comma-separated base-name patterns to skip
		 --skip-existing       do not re-upload files already present remotely
		 --log-level=<level>   debug, info, warn or error
`

const exampleText = `To deploy the current local folder(.) into a given sbxcloud folder with key="b5ad36e8-4b02-ae244ce79449" inside the domain with ID=11:
	 sbxcloud deploy . b5ad36e8-4b02-ae244ce79449 11`

func printUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

func printExample(w io.Writer) {
	fmt.Fprintf(w, "\n\nExample: %s\n", exampleText)
}
