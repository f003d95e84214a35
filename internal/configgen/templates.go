package configgen

import "sort"

// Template is a static configuration snippet with {{placeholders}}.
type Template struct {
	Name        string
	URI         string
	Description string
	Text        string
}

const templateURIPrefix = "cml://templates/"

var templates = map[string]Template{
	"basic-router": {
		Name:        "basic-router",
		Description: "Basic router configuration template",
		Text: `
! Basic Router Configuration Template
!
hostname {{hostname}}
!
interface GigabitEthernet0/0
 ip address {{interface_ip}} {{interface_mask}}
 no shutdown
!
`,
	},
	"basic-switch": {
		Name:        "basic-switch",
		Description: "Basic switch configuration template",
		Text: `
! Basic Switch Configuration Template
!
hostname {{hostname}}
!
vlan {{vlan_id}}
 name {{vlan_name}}
!
`,
	},
	"ospf-config": {
		Name:        "ospf-config",
		Description: "OSPF configuration template",
		Text: `
! OSPF Configuration Template
!
router ospf {{process_id}}
 network {{network_address}} {{wildcard_mask}} area {{area_id}}
!
`,
	},
}

// Templates returns every template ordered by name.
func Templates() []Template {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}

	sort.Strings(names)

	result := make([]Template, 0, len(names))
	for _, name := range names {
		result = append(result, LookupTemplate(name))
	}

	return result
}

// LookupTemplate returns the named template. The zero Template is returned
// for unknown names.
func LookupTemplate(name string) Template {
	template, ok := templates[name]
	if !ok {
		return Template{}
	}

	template.URI = templateURIPrefix + name

	return template
}
