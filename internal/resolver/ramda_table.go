package resolver

// The exported functions of ramda. Each of these lives in its own module at
// "ramda/src/<name>.js" and "ramda/es/<name>.js".
var ramdaFunctions = map[string]bool{
	"F":                       true,
	"T":                       true,
	"__":                      true,
	"add":                     true,
	"addIndex":                true,
	"adjust":                  true,
	"all":                     true,
	"allPass":                 true,
	"always":                  true,
	"and":                     true,
	"andThen":                 true,
	"any":                     true,
	"anyPass":                 true,
	"ap":                      true,
	"aperture":                true,
	"append":                  true,
	"apply":                   true,
	"applySpec":               true,
	"applyTo":                 true,
	"ascend":                  true,
	"assoc":                   true,
	"assocPath":               true,
	"binary":                  true,
	"bind":                    true,
	"both":                    true,
	"call":                    true,
	"chain":                   true,
	"clamp":                   true,
	"clone":                   true,
	"collectBy":               true,
	"comparator":              true,
	"complement":              true,
	"compose":                 true,
	"composeWith":             true,
	"concat":                  true,
	"cond":                    true,
	"construct":               true,
	"constructN":              true,
	"converge":                true,
	"count":                   true,
	"countBy":                 true,
	"curry":                   true,
	"curryN":                  true,
	"dec":                     true,
	"defaultTo":               true,
	"descend":                 true,
	"difference":              true,
	"differenceWith":          true,
	"dissoc":                  true,
	"dissocPath":              true,
	"divide":                  true,
	"drop":                    true,
	"dropLast":                true,
	"dropLastWhile":           true,
	"dropRepeats":             true,
	"dropRepeatsWith":         true,
	"dropWhile":               true,
	"either":                  true,
	"empty":                   true,
	"endsWith":                true,
	"eqBy":                    true,
	"eqProps":                 true,
	"equals":                  true,
	"evolve":                  true,
	"filter":                  true,
	"find":                    true,
	"findIndex":               true,
	"findLast":                true,
	"findLastIndex":           true,
	"flatten":                 true,
	"flip":                    true,
	"forEach":                 true,
	"forEachObjIndexed":       true,
	"fromPairs":               true,
	"groupBy":                 true,
	"groupWith":               true,
	"gt":                      true,
	"gte":                     true,
	"has":                     true,
	"hasIn":                   true,
	"hasPath":                 true,
	"head":                    true,
	"identical":               true,
	"identity":                true,
	"ifElse":                  true,
	"inc":                     true,
	"includes":                true,
	"indexBy":                 true,
	"indexOf":                 true,
	"init":                    true,
	"innerJoin":               true,
	"insert":                  true,
	"insertAll":               true,
	"intersection":            true,
	"intersperse":             true,
	"into":                    true,
	"invert":                  true,
	"invertObj":               true,
	"invoker":                 true,
	"is":                      true,
	"isEmpty":                 true,
	"isNil":                   true,
	"join":                    true,
	"juxt":                    true,
	"keys":                    true,
	"keysIn":                  true,
	"last":                    true,
	"lastIndexOf":             true,
	"length":                  true,
	"lens":                    true,
	"lensIndex":               true,
	"lensPath":                true,
	"lensProp":                true,
	"lift":                    true,
	"liftN":                   true,
	"lt":                      true,
	"lte":                     true,
	"map":                     true,
	"mapAccum":                true,
	"mapAccumRight":           true,
	"mapObjIndexed":           true,
	"match":                   true,
	"mathMod":                 true,
	"max":                     true,
	"maxBy":                   true,
	"mean":                    true,
	"median":                  true,
	"memoizeWith":             true,
	"merge":                   true,
	"mergeAll":                true,
	"mergeDeepLeft":           true,
	"mergeDeepRight":          true,
	"mergeDeepWith":           true,
	"mergeDeepWithKey":        true,
	"mergeLeft":               true,
	"mergeRight":              true,
	"mergeWith":               true,
	"mergeWithKey":            true,
	"min":                     true,
	"minBy":                   true,
	"modify":                  true,
	"modifyPath":              true,
	"modulo":                  true,
	"move":                    true,
	"multiply":                true,
	"nAry":                    true,
	"negate":                  true,
	"none":                    true,
	"not":                     true,
	"nth":                     true,
	"nthArg":                  true,
	"o":                       true,
	"objOf":                   true,
	"of":                      true,
	"omit":                    true,
	"on":                      true,
	"once":                    true,
	"or":                      true,
	"otherwise":               true,
	"over":                    true,
	"pair":                    true,
	"partial":                 true,
	"partialObject":           true,
	"partialRight":            true,
	"partition":               true,
	"path":                    true,
	"pathEq":                  true,
	"pathOr":                  true,
	"pathSatisfies":           true,
	"paths":                   true,
	"pick":                    true,
	"pickAll":                 true,
	"pickBy":                  true,
	"pipe":                    true,
	"pipeWith":                true,
	"pluck":                   true,
	"prepend":                 true,
	"product":                 true,
	"project":                 true,
	"promap":                  true,
	"prop":                    true,
	"propEq":                  true,
	"propIs":                  true,
	"propOr":                  true,
	"propSatisfies":           true,
	"props":                   true,
	"range":                   true,
	"reduce":                  true,
	"reduceBy":                true,
	"reduceRight":             true,
	"reduceWhile":             true,
	"reduced":                 true,
	"reject":                  true,
	"remove":                  true,
	"repeat":                  true,
	"replace":                 true,
	"reverse":                 true,
	"scan":                    true,
	"sequence":                true,
	"set":                     true,
	"slice":                   true,
	"sort":                    true,
	"sortBy":                  true,
	"sortWith":                true,
	"split":                   true,
	"splitAt":                 true,
	"splitEvery":              true,
	"splitWhen":               true,
	"splitWhenever":           true,
	"startsWith":              true,
	"subtract":                true,
	"sum":                     true,
	"symmetricDifference":     true,
	"symmetricDifferenceWith": true,
	"tail":                    true,
	"take":                    true,
	"takeLast":                true,
	"takeLastWhile":           true,
	"takeWhile":               true,
	"tap":                     true,
	"test":                    true,
	"thunkify":                true,
	"times":                   true,
	"toLower":                 true,
	"toPairs":                 true,
	"toPairsIn":               true,
	"toString":                true,
	"toUpper":                 true,
	"transduce":               true,
	"transpose":               true,
	"traverse":                true,
	"trim":                    true,
	"tryCatch":                true,
	"type":                    true,
	"unapply":                 true,
	"unary":                   true,
	"uncurryN":                true,
	"unfold":                  true,
	"union":                   true,
	"unionWith":               true,
	"uniq":                    true,
	"uniqBy":                  true,
	"uniqWith":                true,
	"unless":                  true,
	"unnest":                  true,
	"until":                   true,
	"unwind":                  true,
	"update":                  true,
	"useWith":                 true,
	"values":                  true,
	"valuesIn":                true,
	"view":                    true,
	"when":                    true,
	"where":                   true,
	"whereAny":                true,
	"whereEq":                 true,
	"without":                 true,
	"xor":                     true,
	"xprod":                   true,
	"zip":                     true,
	"zipObj":                  true,
	"zipWith":                 true,
}
