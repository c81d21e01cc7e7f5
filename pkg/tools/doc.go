/*
Package tools is the request dispatch shell shared by every transport.

A Registry holds the fixed set of tools. The Dispatcher resolves a tool by
name, lets the tool decode and validate its argument bag (see Bind), invokes
it and wraps the outcome as a single pretty-printed JSON text item. Every
failure leaves the dispatcher as a *ToolError with a JSON-RPC style code.

# Usage

	dec := tools.NewDecoder(4096)
	reg := tools.NewRegistry()
	_ = reg.Register(tools.Tool{
		Name:    "echo",
		Params:  []tools.Param{{Name: "text", Type: tools.TypeString, Required: true}},
		Handler: tools.Bind(dec, func(ctx context.Context, args EchoArgs) (any, error) {
			return args, nil
		}),
	})
	res, err := tools.NewDispatcher(reg).Call(ctx, domain.ToolRequest{Name: "echo", Arguments: args})
*/
package tools
