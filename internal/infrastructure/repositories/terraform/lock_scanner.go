package terraform

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// scanLockFile parses a dependency lock file and returns the locked version
// of each provider, keyed by full address ("registry.terraform.io/hashicorp/aws")
// and by short source ("hashicorp/aws").
func scanLockFile(content []byte) (map[string][]string, error) {
	parser := hclparse.NewParser()

	file, diags := parser.ParseHCL(content, lockFileName)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %s", lockFileName, diags.Error())
	}

	body := file.Body
	if body == nil {
		return map[string][]string{}, nil
	}

	bodyContent, _, diags := body.PartialContent(&hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "provider", LabelNames: []string{"address"}},
		},
	})
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to read provider blocks: %s", diags.Error())
	}

	versions := make(map[string][]string)
	for _, block := range bodyContent.Blocks {
		if len(block.Labels) == 0 {
			continue
		}
		address := block.Labels[0]

		version, ok := blockVersion(block)
		if !ok {
			continue
		}

		versions[address] = append(versions[address], version)
		if short := shortSource(address); short != address {
			versions[short] = append(versions[short], version)
		}
	}

	return versions, nil
}

// blockVersion returns the string value of the block's version attribute.
func blockVersion(block *hcl.Block) (string, bool) {
	attrs, _ := block.Body.JustAttributes()

	versionAttr, hasVersion := attrs["version"]
	if !hasVersion {
		return "", false
	}

	value, diags := versionAttr.Expr.Value(&hcl.EvalContext{})
	if diags.HasErrors() || value.IsNull() || value.Type() != cty.String {
		return "", false
	}

	return value.AsString(), true
}

// shortSource strips the registry host from a provider address.
func shortSource(address string) string {
	parts := strings.Split(address, "/")
	if len(parts) == 3 { //nolint:mnd // host/namespace/type
		return parts[1] + "/" + parts[2]
	}
	return address
}
