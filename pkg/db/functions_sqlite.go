package db

import (
	"database/sql"
	"fmt"
	"regexp"

	lru "github.com/hashicorp/golang-lru"
	"github.com/mattn/go-sqlite3"
)

const sqlite3Driver = "sqlite3ex"

// size of the regex LRU cache in elements.
// The regexp function is called for every row of a filtered query, usually
// with the same pattern.
const regexCacheSize = 10

var regexCache *lru.Cache

func init() {
	regexCache, _ = lru.New(regexCacheSize)
	registerCustomDriver()
}

func registerCustomDriver() {
	sql.Register(sqlite3Driver,
		&sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				funcs := map[string]interface{}{
					"regexp": regexpFn,
				}

				for name, fn := range funcs {
					if err := conn.RegisterFunc(name, fn, true); err != nil {
						return fmt.Errorf("error registering function %s: %s", name, err.Error())
					}
				}

				return nil
			},
		},
	)
}

func regexpGet(re string) (*regexp.Regexp, error) {
	entry, ok := regexCache.Get(re)
	var ret *regexp.Regexp

	if !ok {
		var err error
		ret, err = regexp.Compile(re)
		if err != nil {
			return nil, err
		}
		regexCache.Add(re, ret)
	} else {
		ret = entry.(*regexp.Regexp)
	}

	return ret, nil
}

// regexpFn is registered as an SQLite function as "regexp"
func regexpFn(re, s string) (bool, error) {
	compiled, err := regexpGet(re)
	if err != nil {
		return false, err
	}

	return compiled.MatchString(s), nil
}
