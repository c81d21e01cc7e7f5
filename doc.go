/*
Package scout is a lookup tool server for LLM agents: company profiles, job
postings and work email addresses, backed by a LinkedIn data API, the Bright
Data dataset collection API and the Hunter email finder.

# Concept

Every operation is a named tool taking a flat argument bag and returning one
text item of indented JSON. The same registry is served over MCP (stdio or
SSE), over a small JSON HTTP API, and from the command line.

Lookups that the provider answers synchronously (job postings, company
profiles, emails) return directly. Dataset collections run for minutes, so
they are split into an initiate tool that hands back a snapshot_id and a
check tool the agent can call as often as it likes with that id. A blocking
variant polls internally within a bounded budget.

# Usage

	cfg, err := config.Load("scout.yaml")
	if err != nil {
		log.Fatal(err)
	}

	svc, err := scout.New(cfg, scout.WithLogger(logging.New(slog.LevelInfo)))
	if err != nil {
		log.Fatal(err)
	}
	defer svc.Close()

	res, err := svc.Call(ctx, "get_company_information", map[string]any{
		"companyName": "Proximus",
	})
	if err != nil {
		log.Fatal(err) // a *tools.ToolError with a JSON-RPC code
	}
	fmt.Println(res.Text())

Credentials come from LINKEDIN_API_KEY, BRIGHTDATA_API_TOKEN and
HUNTER_API_KEY. A missing credential only fails the tools of that provider.
*/
package scout
