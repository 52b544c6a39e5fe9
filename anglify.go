// Package anglify rewrites English text between American and British
// conventions.
//
// Anglify is dictionary driven: it swaps vocabulary, spellings, honorific
// titles and clock-time notation, preserving the capitalisation of the text it
// replaces and reporting every changed span so callers can highlight it.
//
// Basic usage:
//
//	import (
//	    "github.com/ZaguanLabs/anglify"
//	    "github.com/ZaguanLabs/anglify/cache"
//	)
//
//	func main() {
//	    dicts, err := anglify.DefaultDictionaries()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    t := anglify.NewTranslator(dicts,
//	        anglify.WithCache(cache.NewInMemoryCache(3600)),
//	    )
//
//	    result := t.Translate("Mangoes are my favorite fruit.", anglify.AmericanToBritish)
//	    fmt.Println(result.Highlighted())
//	    // Mangoes are my <span class="highlight">favourite</span> fruit.
//	}
package anglify
