package configgen

import "fmt"

// OSPFRouter renders a router with GigabitEthernet0/0 addressed on
// 10.0.0.0/24 and OSPF process 1 in area 0.
func OSPFRouter(hostname, address string) string {
	return fmt.Sprintf(`
! Basic %[1]s Configuration with OSPF
!
hostname %[1]s
!
interface GigabitEthernet0/0
 ip address %[2]s 255.255.255.0
 no shutdown
!
router ospf 1
 network 10.0.0.0 0.0.0.255 area 0
!
`, hostname, address)
}
