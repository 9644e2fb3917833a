package validators

import "go.mongodb.org/mongo-driver/bson"

var SpotValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"owner_id",
			"name",
			"address",
			"location",
			"window",
			"available_days",
			"is_covered",
			"size",
			"hourly_rate",
			"is_available",
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

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"address": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"location": bson.M{
				"bsonType": "object",
				"required": []string{"type", "coordinates"},
				"properties": bson.M{
					"type": bson.M{
						"enum": []string{"Point"},
					},
					"coordinates": bson.M{
						"bsonType": "array",
						"minItems": 2,
						"maxItems": 2,
						"items": bson.M{
							"bsonType": "double",
						},
					},
				},
			},

			"window": bson.M{
				"bsonType": "object",
				"required": []string{"start", "end"},
				"properties": bson.M{
					"start": bson.M{
						"bsonType": "string",
						"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
					},
					"end": bson.M{
						"bsonType": "string",
						"pattern":  "^(([01][0-9]|2[0-3]):[0-5][0-9]|24:00)$",
					},
				},
			},

			"is_covered": bson.M{
				"enum": []string{"covered", "uncovered"},
			},

			"size": bson.M{
				"enum": []string{"compact", "standard", "large"},
			},

			"hourly_rate": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"images": bson.M{
				"bsonType": "array",
				"maxItems": 5,
			},

			"is_available": bson.M{
				"bsonType": "bool",
			},
		},
	},
}
