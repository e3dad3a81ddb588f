// Package loader reads contract declarations from YAML or JSON files.
//
// A file holds a single contract mapping, a list of contract mappings, or a
// mapping with a "contracts" list:
//
//	contracts:
//	  - name: getUser
//	    url: /users/:id
//	    method: GET
//	    description: Fetch one user
//	    params:
//	      id: {kind: Number, source: path}
//	      verbose: {kind: Boolean, source: query, required: false, default: false}
//	    result:
//	      kind: {id: Number, name: String, email: String}
//	      filter: [id, name]
//	    handler: getUser
//
// Parameters may also be written as a list of mappings with a "name" member.
// Member order is preserved, so parameters keep their positional order and
// object descriptors keep their member order. The member names TYPE, from,
// require and novalidate are accepted as aliases of kind, source, required
// and skipResultValidation.
//
// Handlers are bound by name with [WithHandlers]; [WithDefaultHandler]
// supplies one for every declaration that names none (or an unknown one).
//
// Sources are a single file ([WithFilePath]), every .yaml, .yml and .json
// file of a directory ([WithDir]), selected files of a directory
// ([WithFiles]), or in-memory data ([WithBytes], [WithReader]). [WithNames]
// restricts loading to the named contracts.
package loader
