package payload

import (
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var (
	domainArgs     abi.Arguments
	domainArgsOnce sync.Once
	domainArgsErr  error
)

// DomainArguments returns the (string oldDomain, string newDomain) argument list
// carried in the data of a domain update event.
func DomainArguments() (abi.Arguments, error) {
	domainArgsOnce.Do(func() {
		stringType, err := abi.NewType("string", "", nil)
		if err != nil {
			domainArgsErr = err
			return
		}
		domainArgs = abi.Arguments{
			{Name: "oldDomain", Type: stringType},
			{Name: "newDomain", Type: stringType},
		}
	})
	return domainArgs, domainArgsErr
}
