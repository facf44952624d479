// Command cxserver runs the linear-document translate-prep pipeline.
package main

import "github.com/gaurav-prasanna/cxserver/cmd"

func main() {
	cmd.Execute()
}
