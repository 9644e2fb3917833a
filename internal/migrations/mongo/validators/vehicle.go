package validators

import "go.mongodb.org/mongo-driver/bson"

var VehicleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"owner_id",
			"plate_number",
			"kind",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"owner_id": bson.M{
				"bsonType": "string",
			},

			"plate_number": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 20,
			},

			"kind": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 30,
			},

			"is_electric": bson.M{
				"bsonType": "bool",
			},

			"is_default": bson.M{
				"bsonType": "bool",
			},
		},
	},
}
